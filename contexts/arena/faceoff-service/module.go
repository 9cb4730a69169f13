package faceoffservice

import (
	"log/slog"

	httpadapter "newedenfaces/contexts/arena/faceoff-service/adapters/http"
	"newedenfaces/contexts/arena/faceoff-service/adapters/memory"
	"newedenfaces/contexts/arena/faceoff-service/application/commands"
	"newedenfaces/contexts/arena/faceoff-service/application/queries"
	"newedenfaces/contexts/arena/faceoff-service/domain/entities"
	"newedenfaces/contexts/arena/faceoff-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Characters ports.CharacterRepository
	Directory  ports.DirectoryClient
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Rand       ports.RandomSource
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	pairUseCase := queries.PairUseCase{
		Characters: deps.Characters,
		Rand:       deps.Rand,
		Logger:     deps.Logger,
	}
	leaderboardUseCase := queries.LeaderboardUseCase{
		Characters: deps.Characters,
	}
	voteUseCase := commands.VoteUseCase{
		Characters: deps.Characters,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	enlistUseCase := commands.EnlistUseCase{
		Characters: deps.Characters,
		Directory:  deps.Directory,
		Outbox:     deps.Outbox,
		Clock:      deps.Clock,
		IDGen:      deps.IDGen,
		Logger:     deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Pairs:       pairUseCase,
			Leaderboard: leaderboardUseCase,
			Votes:       voteUseCase,
			Enlist:      enlistUseCase,
			Logger:      deps.Logger,
		},
	}
}

func NewInMemoryModule(seed []entities.Character, directory ports.DirectoryClient, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Characters: store,
		Directory:  directory,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Rand:       store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
