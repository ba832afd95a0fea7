// Type commands manage content-type definitions.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeloom/typeloom/pkg/types"
)

var (
	typeFile    string
	typeProject string
)

var typeCmd = &cobra.Command{
	Use:   "type",
	Short: "Manage content-type definitions",
}

var typeCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a content type from a definition file",
	Long: `Create validates a content-type definition and stores it as a
compiled schema document.

The definition is a JSON object with name, projectId, userId, and a
fields array. Use "-" to read from stdin.

Example:
  typeloom type create --file article.json
  cat article.json | typeloom type create --file -`,
	Args: cobra.NoArgs,
	RunE: runTypeCreate,
}

var typeGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show a content type",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypeGet,
}

var typeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List content types",
	Args:  cobra.NoArgs,
	RunE:  runTypeList,
}

var typeDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a content type and its entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runTypeDelete,
}

func init() {
	typeCreateCmd.Flags().StringVar(&typeFile, "file", "", "definition JSON file, or - for stdin (required)")
	_ = typeCreateCmd.MarkFlagRequired("file")

	typeListCmd.Flags().StringVar(&typeProject, "project", "", "filter by project id")

	typeCmd.AddCommand(typeCreateCmd)
	typeCmd.AddCommand(typeGetCmd)
	typeCmd.AddCommand(typeListCmd)
	typeCmd.AddCommand(typeDeleteCmd)
}

func runTypeCreate(cmd *cobra.Command, args []string) error {
	data, err := readInput(typeFile)
	if err != nil {
		return err
	}
	var def types.ContentTypeDefinition
	if err := json.Unmarshal(data, &def); err != nil {
		return fmt.Errorf("parse definition: %w", err)
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
	id, err := table.Set("", &def)
	if err != nil {
		return fmt.Errorf("create content type: %w", err)
	}

	return printEntity(&def, "Created content type: "+id)
}

func runTypeGet(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableContentTypes)
	if err != nil {
		return err
	}
	entity, err := table.Get(args[0])
	if err != nil {
		return fmt.Errorf("get content type: %w", err)
	}

	def := entity.(*types.ContentTypeDefinition)
	return printEntity(def, fmt.Sprintf("%s  %s  (%d fields)", def.ID, def.Name, len(def.Fields)))
}

func runTypeList(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableContentTypes)
	if err != nil {
		return err
	}
	filter := map[string]any{}
	if typeProject != "" {
		filter["project_id"] = typeProject
	}
	entities, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("list content types: %w", err)
	}

	return printList(entities, func(e any) string {
		def := e.(*types.ContentTypeDefinition)
		return fmt.Sprintf("%s  %s  (%d fields)", def.ID, def.Name, len(def.Fields))
	})
}

func runTypeDelete(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableContentTypes)
	if err != nil {
		return err
	}
	if err := table.Delete(args[0]); err != nil {
		return fmt.Errorf("delete content type: %w", err)
	}

	fmt.Println("Deleted content type:", args[0])
	return nil
}
