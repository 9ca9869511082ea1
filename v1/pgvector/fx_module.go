package pgvector

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// FXModule integrates the pgvector store into an Fx-based application. It
// provides the *Store factory, binds it to the docstore.Store interface and
// registers a shutdown hook that closes the backend connection.
//
// Usage:
//
//	app := fx.New(
//	    pgvector.FXModule,
//	    fx.Provide(func() pgvector.Config {
//	        return *pgvector.DefaultConfig().WithTable("documents")
//	    }),
//	    // other modules...
//	)
//
// A pgvector.Config instance must be available in the dependency injection
// container.
var FXModule = fx.Module("pgvector",
	fx.Provide(
		NewStore,
		func(s *Store) docstore.Store { return s },
	),
	fx.Invoke(registerStoreLifecycle),
)

func registerStoreLifecycle(lc fx.Lifecycle, s *Store) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return s.Close(ctx)
		},
	})
}
