package engine

import (
	"log/slog"

	"github.com/arbor-social/arbor/moderation/reputation"
	"github.com/arbor-social/arbor/moderation/rules"
)

// Builds a fully in-memory engine with the default rules, for use in tests.
// Intentionally exported, for use in other packages.
func EngineTestFixture() *Engine {
	eng := New(DefaultConfig(), rules.DefaultRules(), reputation.NewMemStore(), slog.Default())
	eng.Executor = NoopExecutor{}
	return eng
}
