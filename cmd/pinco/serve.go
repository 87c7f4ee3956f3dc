package main

import (
	"log"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/pincoapp/pinco/internal/api"
	"github.com/pincoapp/pinco/internal/config"
	"github.com/pincoapp/pinco/internal/db"
	"github.com/pincoapp/pinco/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
			if err != nil {
				return err
			}
			defer func() { _ = database.Close() }()

			if err := db.Migrate(database, cfg.DB.Driver); err != nil {
				return err
			}

			userStore := store.NewUserStore(database)
			pinStore := store.NewPinStore(database)
			tagStore := store.NewTagStore(database)
			pinTagStore := store.NewPinTagStore(database)
			bookmarkStore := store.NewBookmarkStore(database)
			likeStore := store.NewLikeStore(database, pinStore)

			router := api.NewRouter(api.Deps{
				Pins:                pinStore,
				Tags:                tagStore,
				PinTags:             pinTagStore,
				Bookmarks:           bookmarkStore,
				Likes:               likeStore,
				Users:               userStore,
				RequestTimeout:      cfg.HTTP.RequestTimeout,
				DefaultRadiusMeters: cfg.Geo.DefaultRadiusMeters,
			})

			log.Printf("listening on %s", cfg.HTTP.Addr)
			return http.ListenAndServe(cfg.HTTP.Addr, router)
		},
	}
}
