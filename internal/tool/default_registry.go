package tool

import (
	"github.com/airtrafficctl/atc/internal/logging"
	"github.com/airtrafficctl/atc/internal/registry"
	"github.com/airtrafficctl/atc/internal/store"
)

// DefaultRegistry creates a registry with every built-in tool wired to st.
func DefaultRegistry(st store.Store) *registry.Registry {
	r := registry.New()

	r.Register(NewIncludeFileTool(st))
	r.Register(NewIncludeURLTool(st))
	r.Register(NewAddRuleTool(st))

	r.Register(NewDiscoveryListTool())
	r.Register(NewDiscoverySearchTool())
	r.Register(NewDiscoveryReadTool())

	r.Register(NewFilesWriteTool())
	r.Register(NewFilesMoveTool())
	r.Register(NewFilesDeleteTool())

	r.Register(NewGitStatusTool())
	r.Register(NewGitDiffTool())
	r.Register(NewGitAddAllTool())
	r.Register(NewGitCommitTool())

	logging.Logger.Debug().Strs("tools", r.IDs()).Msg("default registry wired")
	return r
}
