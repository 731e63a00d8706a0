package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/voicearena/ttsbench/internal/api/handlers"
	"github.com/voicearena/ttsbench/internal/api/middleware"
	"github.com/voicearena/ttsbench/internal/cache"
	"github.com/voicearena/ttsbench/internal/config"
	"github.com/voicearena/ttsbench/internal/dataset"
	"github.com/voicearena/ttsbench/internal/geo"
	"github.com/voicearena/ttsbench/internal/provider"
	"github.com/voicearena/ttsbench/internal/queue"
	"github.com/voicearena/ttsbench/internal/rating"
	"github.com/voicearena/ttsbench/internal/results"
	"github.com/voicearena/ttsbench/internal/runner"
	"github.com/voicearena/ttsbench/internal/session"
	"github.com/voicearena/ttsbench/internal/voice"
)

type Router struct {
	mux      *chi.Mux
	db       *pgxpool.Pool
	cache    *cache.Cache
	cfg      *config.Config
	registry *provider.Registry
	runner   *runner.Runner
	sessions *session.Manager
}

func NewRouter(db *pgxpool.Pool, c *cache.Cache, cfg *config.Config, reg *provider.Registry) *Router {
	adapters := provider.ConfiguredAdapters(reg,
		time.Duration(cfg.Bench.TimeoutSeconds)*time.Second,
		time.Duration(cfg.Bench.PingTimeoutSec)*time.Second)

	return &Router{
		mux:      chi.NewRouter(),
		db:       db,
		cache:    c,
		cfg:      cfg,
		registry: reg,
		runner:   runner.New(adapters, cfg.Bench.Concurrency),
		sessions: session.NewManager(cfg.Session.Secret, time.Duration(cfg.Session.TTLHours)*time.Hour),
	}
}

func (rt *Router) Setup() http.Handler {
	r := rt.mux

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS([]string{"*"}))

	rl := middleware.NewRateLimiter(20, 40)
	r.Use(rl.Limit)

	health := handlers.NewHealthHandler(rt.db, rt.cache.Client())
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	selector := voice.NewSelector(rt.registry)
	ratingStore := rating.NewPostgresStore(rt.db, rt.cfg.Bench.InitialRating)
	ratingSvc := rating.NewService(ratingStore, rt.cache, rt.cfg.Bench.KFactor, rt.cfg.Bench.InitialRating)
	resultStore := results.NewStore(rt.db)
	locator := geo.NewLocator(rt.cache)
	queueClient := queue.NewClient(rt.cfg.Redis)
	generator := rt.sampleGenerator()

	r.Route("/v1", func(r chi.Router) {
		sessionsH := handlers.NewSessionsHandler(rt.sessions)
		r.Post("/sessions", sessionsH.Create)

		providersH := handlers.NewProvidersHandler(rt.registry)
		r.Get("/providers", providersH.List)
		r.Get("/providers/{id}/voices", providersH.Voices)

		leaderboardH := handlers.NewLeaderboardHandler(ratingSvc, resultStore)
		r.Get("/leaderboard", leaderboardH.Get)
		r.Get("/leaderboard/ttfb", leaderboardH.TTFB)

		samplesH := handlers.NewSamplesHandler(generator)
		r.Get("/samples", samplesH.Generate)

		votesH := handlers.NewVotesHandler(ratingSvc, locator)
		r.Get("/votes/statistics", votesH.Statistics)

		// Everything that spends vendor quota or writes ratings needs a
		// session token.
		r.Group(func(r chi.Router) {
			r.Use(rt.sessions.Middleware)

			testsH := handlers.NewTestsHandler(rt.runner, selector)
			r.Post("/tests", testsH.Run)

			racesH := handlers.NewRacesHandler(rt.runner, selector, ratingSvc, locator)
			r.Post("/races", racesH.Run)

			r.Post("/votes", votesH.Record)

			suitesH := handlers.NewSuitesHandler(queueClient, resultStore)
			r.Post("/suites", suitesH.Start)
			r.Get("/suites/results", suitesH.RecentResults)

			r.Get("/sessions/{id}/ratings", leaderboardH.SessionRatings)
		})
	})

	return r
}

// sampleGenerator prefers the corpus, then the LLM, then the builtin pool.
func (rt *Router) sampleGenerator() dataset.Generator {
	if rt.cfg.Dataset.CorpusDir != "" {
		if gen, err := dataset.LoadCorpus(rt.cfg.Dataset.CorpusDir, dataset.CategoryLiterature); err == nil {
			return gen
		}
	}
	if rt.cfg.Dataset.AnthropicKey != "" {
		return dataset.NewLLMGenerator(rt.cfg.Dataset.AnthropicKey, rt.cfg.Dataset.AnthropicModel)
	}
	return dataset.NewBuiltinGenerator()
}
