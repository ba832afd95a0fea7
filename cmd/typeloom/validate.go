// Validate commands check definitions and records without storing them.
package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeloom/typeloom/pkg/types"
	"github.com/typeloom/typeloom/pkg/validate"
)

var (
	validateFile string
	validateType string
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate definitions and records without storing them",
}

var validateTypeCmd = &cobra.Command{
	Use:   "type",
	Short: "Check a content-type definition file",
	Long: `Validates a definition file against the field-kind constraint sets
and reports every violation. Nothing is stored.

Example:
  typeloom validate type --file article.json`,
	Args: cobra.NoArgs,
	RunE: runValidateType,
}

var validateEntryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Check a content record against a stored content type",
	Long: `Validates a record file against a stored content type, including
referential checks for MEDIA and LINK fields. Nothing is stored.

Example:
  typeloom validate entry --type 0190d1f2-... --file record.json`,
	Args: cobra.NoArgs,
	RunE: runValidateEntry,
}

func init() {
	validateTypeCmd.Flags().StringVar(&validateFile, "file", "", "definition JSON file, or - for stdin (required)")
	_ = validateTypeCmd.MarkFlagRequired("file")

	validateEntryCmd.Flags().StringVar(&validateFile, "file", "", "record JSON file, or - for stdin (required)")
	validateEntryCmd.Flags().StringVar(&validateType, "type", "", "content type id (required)")
	_ = validateEntryCmd.MarkFlagRequired("file")
	_ = validateEntryCmd.MarkFlagRequired("type")

	validateCmd.AddCommand(validateTypeCmd)
	validateCmd.AddCommand(validateEntryCmd)
}

func runValidateType(cmd *cobra.Command, args []string) error {
	data, err := readInput(validateFile)
	if err != nil {
		return err
	}
	var def types.ContentTypeDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parse definition: %w", err)
	}

	if err := validate.Definition(&def); err != nil {
		return err
	}
	fmt.Println("Definition is valid")
	return nil
}

func runValidateEntry(cmd *cobra.Command, args []string) error {
	data, err := readInput(validateFile)
	if err != nil {
		return err
	}
	var content types.ContentRecord
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("parse record: %w", err)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableContentTypes)
	if err != nil {
		return err
	}
	entity, err := table.Get(validateType)
	if err != nil {
		return fmt.Errorf("get content type: %w", err)
	}
	def := entity.(*types.ContentTypeDefinition)

	if err := validate.Record(context.Background(), def, content, backend.Lookups()); err != nil {
		return err
	}
	fmt.Println("Record is valid")
	return nil
}
