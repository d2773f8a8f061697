package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/fieldwork/internal/schemas"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a timeline or report file against its schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var validateKind string

func init() {
	validateCmd.Flags().StringVarP(&validateKind, "kind", "k", "timeline", "Artifact kind: timeline or report")
	rootCmd.AddCommand(validateCmd)
}

func schemaFor(kind string) (string, error) {
	switch kind {
	case "timeline":
		return schemas.Timeline, nil
	case "report":
		return schemas.Report, nil
	default:
		return "", fmt.Errorf("unknown artifact kind %q (want timeline or report)", kind)
	}
}

func runValidate(_ *cobra.Command, args []string) error {
	name, err := schemaFor(validateKind)
	if err != nil {
		return err
	}
	if err := schemas.ValidateFile(name, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "%s is a valid %s\n", args[0], validateKind)
	return nil
}
