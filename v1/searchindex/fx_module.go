package searchindex

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/docstore/v1/docstore"
)

// FXModule integrates the search-index store into an Fx-based application.
// It provides the *Store factory, binds it to the docstore.Store interface
// and registers a shutdown hook.
//
// Usage:
//
//	app := fx.New(
//	    searchindex.FXModule,
//	    fx.Provide(func() searchindex.Config {
//	        return *searchindex.DefaultConfig().WithIndexName("documents")
//	    }),
//	    // other modules...
//	)
//
// A searchindex.Config instance must be available in the dependency
// injection container.
var FXModule = fx.Module("searchindex",
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
