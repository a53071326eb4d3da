package main

import (
	"go.uber.org/fx"

	"github.com/andrasnagy-data/sup/internal/components/auth"
	"github.com/andrasnagy-data/sup/internal/components/messages"
	"github.com/andrasnagy-data/sup/internal/components/users"
	"github.com/andrasnagy-data/sup/internal/server"
	"github.com/andrasnagy-data/sup/internal/shared/config"
	"github.com/andrasnagy-data/sup/internal/shared/database"
	"github.com/andrasnagy-data/sup/internal/shared/logging"
)

func main() {
	fx.New(
		fx.Provide(
			config.NewConfig,
			logging.NewLogger,
			database.NewMongo,
			server.NewHealthSrvc,
			server.NewHealthHandler,
			users.NewRepo,
			users.NewCredentialSource,
			users.NewService,
			auth.NewService,
			auth.NewMiddleware,
			messages.NewRepo,
			messages.NewService,
			fx.Annotate(users.NewRouter, fx.ResultTags(`name:"usersRouter"`)),
			fx.Annotate(messages.NewRouter, fx.ResultTags(`name:"messagesRouter"`)),
			server.NewServer,
		),
		fx.Invoke((*server.Server).Start),
	).Run()
}
