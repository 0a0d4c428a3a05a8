package use

import (
	"fmt"
	"os"

	"github.com/lithammer/dedent"
	"github.com/spf13/cobra"

	"github.com/blackowiak/blackowiak-llm/cli/cliconfig"
	"github.com/blackowiak/blackowiak-llm/pkg/errors"
)

// New returns the hook the processing pipeline invokes once per completed
// session. Enforcement is explicit at the call site: the pipeline runs
// `use` before starting, and skips the session if it exits nonzero.
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Check entitlement and record one metered use",
		Long: dedent.Dedent(`
			Check entitlement and record one metered use.

			Exits 0 and increments the usage meter when this machine holds a
			valid license; exits 1 without side effects otherwise. Recording
			the use is best-effort: a failure to persist the new count never
			fails the command.`),
		Run: func(_ *cobra.Command, _ []string) {
			config, err := cliconfig.Load()
			if err != nil {
				errors.HandleFatalError(err)
			}

			store := config.Store()
			if _, _, err := store.Check(); err != nil {
				fmt.Fprintln(os.Stderr, errors.GetPrintableMessage(err))
				os.Exit(1)
			}
			store.IncrementUsage()
		},
	}
	cmd.Hidden = true
	return cmd
}
