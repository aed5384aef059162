package handler

import (
	"net/http"
	"sync"

	"etm/config"
	"etm/di"
	"etm/shared/logger"
	"etm/shared/timezone"

	"github.com/rs/zerolog/log"
)

var (
	once sync.Once
	app  *di.App
)

// Handler serves the API as a single serverless function.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger(cfg)
		logger.SetLogLevel(cfg)

		if err := timezone.Init(cfg.App.Timezone); err != nil {
			log.Error().Err(err).Msg("Failed to load application timezone")
		}

		app = di.InitializeApp()
	})

	app.HTTP.ServeHTTP(w, r)
}
