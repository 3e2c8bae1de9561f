package cli

import (
	"context"
	"os"
)

// Execute runs the wiresep CLI with the process arguments and returns an
// error if any command fails. Logs go to stderr at info level unless
// --verbose is set.
//
//	func main() {
//	    if err := cli.Execute(ctx); err != nil {
//	        os.Exit(1)
//	    }
//	}
func Execute(ctx context.Context) error {
	c := New(os.Stderr, LogInfo)
	return c.RootCommand().ExecuteContext(ctx)
}
