// ABOUTME: Bulk import CLI command
// ABOUTME: Replaces the record set from a CSV file, archiving the prior one
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/harperreed/engage/config"
	"github.com/harperreed/engage/store"
)

// ImportCommand replaces the engagement record set from a CSV file
func ImportCommand(s *store.Store, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("file", "", "CSV file to import (required)")
	_ = fs.Parse(args)

	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	f, err := os.Open(*file)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", *file, err)
	}
	defer func() { _ = f.Close() }()

	result, err := s.Import(f)
	if err != nil {
		return err
	}

	fmt.Println(result.String())
	return nil
}
