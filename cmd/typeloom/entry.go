// Entry commands manage content records.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeloom/typeloom/pkg/types"
)

var (
	entryFile    string
	entryType    string
	entryProject string
)

var entryCmd = &cobra.Command{
	Use:   "entry",
	Short: "Manage content entries",
}

var entryCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an entry from a content file",
	Long: `Create validates a content record against its content type and
stores it as an entry.

The content file is a JSON object mapping field names to values. Use "-"
to read from stdin.

Example:
  typeloom entry create --type 0190d1f2-... --file article-1.json`,
	Args: cobra.NoArgs,
	RunE: runEntryCreate,
}

var entryGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryGet,
}

var entryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List entries",
	Args:  cobra.NoArgs,
	RunE:  runEntryList,
}

var entryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an entry",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntryDelete,
}

func init() {
	entryCreateCmd.Flags().StringVar(&entryFile, "file", "", "content JSON file, or - for stdin (required)")
	entryCreateCmd.Flags().StringVar(&entryType, "type", "", "content type id (required)")
	_ = entryCreateCmd.MarkFlagRequired("file")
	_ = entryCreateCmd.MarkFlagRequired("type")

	entryListCmd.Flags().StringVar(&entryType, "type", "", "filter by content type id")
	entryListCmd.Flags().StringVar(&entryProject, "project", "", "filter by project id")

	entryCmd.AddCommand(entryCreateCmd)
	entryCmd.AddCommand(entryGetCmd)
	entryCmd.AddCommand(entryListCmd)
	entryCmd.AddCommand(entryDeleteCmd)
}

func runEntryCreate(cmd *cobra.Command, args []string) error {
	data, err := readInput(entryFile)
	if err != nil {
		return err
	}
	var content types.ContentRecord
	if err := json.Unmarshal(data, &content); err != nil {
		return fmt.Errorf("parse content: %w", err)
	}

	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableEntries)
	if err != nil {
		return err
	}
	entry := &types.Entry{
		ContentTypeID: entryType,
		Content:       content,
	}
	id, err := table.Set("", entry)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}

	return printEntity(entry, "Created entry: "+id)
}

func runEntryGet(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableEntries)
	if err != nil {
		return err
	}
	entity, err := table.Get(args[0])
	if err != nil {
		return fmt.Errorf("get entry: %w", err)
	}

	e := entity.(*types.Entry)
	return printEntity(e, fmt.Sprintf("%s  type=%s  project=%s", e.EntryID, e.ContentTypeID, e.ProjectID))
}

func runEntryList(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableEntries)
	if err != nil {
		return err
	}
	filter := map[string]any{}
	if entryType != "" {
		filter["content_type_id"] = entryType
	}
	if entryProject != "" {
		filter["project_id"] = entryProject
	}
	entities, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	return printList(entities, func(e any) string {
		entry := e.(*types.Entry)
		return fmt.Sprintf("%s  type=%s  project=%s", entry.EntryID, entry.ContentTypeID, entry.ProjectID)
	})
}

func runEntryDelete(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableEntries)
	if err != nil {
		return err
	}
	if err := table.Delete(args[0]); err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}

	fmt.Println("Deleted entry:", args[0])
	return nil
}
