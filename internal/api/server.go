// Package api serves screening predictions and training over HTTP.
package api

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"screening/internal/artifact"
	"screening/internal/config"
	"screening/internal/data"
	apperrors "screening/internal/errors"
	"screening/internal/features"
	"screening/internal/predict"
	"screening/internal/session"
	"screening/internal/training"
)

// TrainFunc fits and persists a new model and returns a scorer for it.
type TrainFunc func(ctx context.Context, req TrainRequest) (Scorer, *training.Result, error)

type Server struct {
	cfg      config.Config
	schema   *features.Schema
	logger   *zap.Logger
	sessions *session.Store
	train    TrainFunc

	mu     sync.RWMutex
	scorer Scorer
}

type Option func(*Server)

// WithScorer installs an already loaded model.
func WithScorer(s Scorer) Option { return func(srv *Server) { srv.scorer = s } }

func WithTrainFunc(f TrainFunc) Option { return func(srv *Server) { srv.train = f } }

func WithSessions(st *session.Store) Option { return func(srv *Server) { srv.sessions = st } }

func NewServer(cfg config.Config, schema *features.Schema, logger *zap.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, schema: schema, logger: logger, sessions: session.NewStore()}
	s.train = s.trainAndPersist
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) current() (Scorer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.scorer == nil {
		return nil, apperrors.NewModelUnavailableError(s.cfg.Model.Path, nil)
	}
	return s.scorer, nil
}

func (s *Server) swap(sc Scorer) {
	s.mu.Lock()
	s.scorer = sc
	s.mu.Unlock()
}

// Router builds the gin engine with every route registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger), errorHandler(s.logger))

	r.GET("/health", s.handleHealth)
	r.GET("/schema", s.handleSchema)
	r.GET("/about", s.handleAbout)
	r.GET("/model", s.handleModel)

	api := r.Group("/")
	api.Use(apiKeyMiddleware(s.cfg.Server.APIKey))
	api.POST("/predict", s.handlePredict)
	api.POST("/predict/vector", s.handlePredictVector)
	api.POST("/batch", s.handleBatch)
	api.POST("/train", s.handleTrain)

	api.POST("/sessions", s.handleCreateSession)
	api.GET("/sessions/:id", s.handleGetSession)
	api.GET("/sessions/:id/report", s.handleSessionReport)
	api.POST("/sessions/:id/screenings", s.handleScreening)
	api.DELETE("/sessions/:id", s.handleDeleteSession)
	return r
}

// trainAndPersist generates a fresh dataset, trains on it and saves the artifact
// to the configured path before handing back a predictor for it.
func (s *Server) trainAndPersist(ctx context.Context, req TrainRequest) (Scorer, *training.Result, error) {
	samples := s.cfg.Generator.Samples
	if req.Samples > 0 {
		samples = req.Samples
	}
	seed := s.cfg.Generator.Seed
	if req.Seed != nil {
		seed = *req.Seed
	}
	opts := training.Options{
		Algorithm:    s.cfg.Model.Algorithm,
		Params:       s.cfg.Forest,
		TestFraction: s.cfg.Training.TestFraction,
		Folds:        s.cfg.Training.Folds,
		Seed:         s.cfg.Training.Seed,
	}
	if req.Algorithm != "" {
		opts.Algorithm = req.Algorithm
	}
	if req.Estimators > 0 {
		opts.Params.Estimators = req.Estimators
	}

	ds, err := data.NewGenerator(s.schema).Generate(samples, seed)
	if err != nil {
		return nil, nil, err
	}
	res, err := training.New(opts, s.logger).Train(ctx, ds)
	if err != nil {
		return nil, nil, err
	}
	art := artifact.FromResult(s.schema, opts.Algorithm, opts.Params, res)
	if err := artifact.Save(s.cfg.Model.Path, art); err != nil {
		return nil, nil, err
	}
	p, err := predict.New(art, s.schema, predict.WithCopy(s.cfg.Copy))
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("model saved", zap.String("path", s.cfg.Model.Path), zap.String("algorithm", opts.Algorithm))
	return p, res, nil
}
