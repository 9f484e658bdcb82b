package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/predict"
	"screening/internal/session"
	"screening/internal/training"
)

type answersRequest struct {
	Responses []int `json:"responses" binding:"required,len=10,dive,oneof=0 1"`
	Age       *int  `json:"age" binding:"required,min=0,max=120"`
	Gender    *int  `json:"gender" binding:"required,oneof=0 1"`
}

func (r answersRequest) answers() features.Answers {
	var a features.Answers
	copy(a.Responses[:], r.Responses)
	a.Age = *r.Age
	a.Gender = *r.Gender
	return a
}

type vectorRequest struct {
	Features []float64 `json:"features" binding:"required"`
}

// TrainRequest overrides the configured generator and model settings for one run.
// Training runs on the request goroutine, so sizes are capped.
type TrainRequest struct {
	Samples    int    `json:"samples" binding:"omitempty,min=4,max=2000"`
	Seed       *int64 `json:"seed"`
	Algorithm  string `json:"algorithm" binding:"omitempty,oneof=rf dt bagging gb"`
	Estimators int    `json:"estimators" binding:"omitempty,min=1,max=100"`
}

type trainResponse struct {
	Metrics     training.Metrics             `json:"metrics"`
	Importances []training.FeatureImportance `json:"importances"`
	Train       int                          `json:"train_samples"`
	Test        int                          `json:"test_samples"`
	Path        string                       `json:"path"`
}

type screeningResponse struct {
	Record session.Record `json:"record"`
}

func (s *Server) bind(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		_ = c.Error(apperrors.NewValidationError("invalid request body", err))
		return false
	}
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	_, err := s.current()
	c.JSON(http.StatusOK, gin.H{"status": "ok", "model_loaded": err == nil})
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"name":      s.schema.Name,
		"version":   s.schema.Version,
		"features":  s.schema.FeatureNames(),
		"questions": s.schema.Questions,
		"age_min":   s.schema.AgeMin,
		"age_max":   s.schema.AgeMax,
	})
}

func (s *Server) handleAbout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"title":      s.cfg.Copy.Title,
		"disclaimer": s.cfg.Copy.Disclaimer,
		"about":      s.cfg.Copy.About,
	})
}

func (s *Server) handleModel(c *gin.Context) {
	sc, err := s.current()
	if err != nil {
		_ = c.Error(err)
		return
	}
	a := sc.Artifact()
	c.JSON(http.StatusOK, gin.H{
		"schema":      a.Schema,
		"features":    a.FeatureNames,
		"algorithm":   a.Algorithm,
		"params":      a.Params,
		"trained_at":  a.TrainedAt,
		"metrics":     a.Metrics,
		"importances": a.Importances,
	})
}

func (s *Server) handlePredict(c *gin.Context) {
	var req answersRequest
	if !s.bind(c, &req) {
		return
	}
	sc, err := s.current()
	if err != nil {
		_ = c.Error(err)
		return
	}
	p, err := sc.PredictAnswers(req.answers())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handlePredictVector(c *gin.Context) {
	var req vectorRequest
	if !s.bind(c, &req) {
		return
	}
	sc, err := s.current()
	if err != nil {
		_ = c.Error(err)
		return
	}
	p, err := sc.PredictSlice(req.Features)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleBatch(c *gin.Context) {
	var items []answersRequest
	if !s.bind(c, &items) {
		return
	}
	sc, err := s.current()
	if err != nil {
		_ = c.Error(err)
		return
	}
	vs := make([]features.FeatureVector, len(items))
	for i, it := range items {
		v, err := s.schema.Vectorize(it.answers())
		if err != nil {
			_ = c.Error(err)
			return
		}
		vs[i] = v
	}
	out, err := sc.PredictBatch(vs)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": out})
}

func (s *Server) handleTrain(c *gin.Context) {
	var req TrainRequest
	if c.Request.ContentLength != 0 && !s.bind(c, &req) {
		return
	}
	sc, res, err := s.train(c.Request.Context(), req)
	if err != nil {
		_ = c.Error(err)
		return
	}
	s.swap(sc)
	c.JSON(http.StatusOK, trainResponse{
		Metrics:     res.Metrics,
		Importances: res.Importances,
		Train:       res.Train.Len(),
		Test:        res.Test.Len(),
		Path:        s.cfg.Model.Path,
	})
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var p session.Profile
	if c.Request.ContentLength != 0 && !s.bind(c, &p) {
		return
	}
	c.JSON(http.StatusCreated, s.sessions.Create(p))
}

func (s *Server) handleGetSession(c *gin.Context) {
	sess, err := s.sessions.Get(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (s *Server) handleSessionReport(c *gin.Context) {
	rep, err := s.sessions.Report(c.Param("id"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) handleScreening(c *gin.Context) {
	id := c.Param("id")
	if _, err := s.sessions.Get(id); err != nil {
		_ = c.Error(err)
		return
	}
	var req answersRequest
	if !s.bind(c, &req) {
		return
	}
	sc, err := s.current()
	if err != nil {
		_ = c.Error(err)
		return
	}
	a := req.answers()
	var p predict.Prediction
	if p, err = sc.PredictAnswers(a); err != nil {
		_ = c.Error(err)
		return
	}
	rec, err := s.sessions.Record(id, a, p)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusCreated, screeningResponse{Record: rec})
}

func (s *Server) handleDeleteSession(c *gin.Context) {
	if err := s.sessions.Delete(c.Param("id")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Status(http.StatusNoContent)
}
