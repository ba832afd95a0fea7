// Media commands manage the media registry that MEDIA fields reference.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/typeloom/typeloom/pkg/types"
)

var (
	mediaProject  string
	mediaFileName string
	mediaMimeType string
	mediaSize     int64
)

var mediaCmd = &cobra.Command{
	Use:   "media",
	Short: "Manage the media registry",
}

var mediaAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a media asset",
	Long: `Add registers a media asset so MEDIA fields can reference it.
The asset bytes themselves are stored elsewhere; typeloom only tracks
the registry record.

Example:
  typeloom media add --project p1 --file-name cover.png --mime-type image/png --size 52341`,
	Args: cobra.NoArgs,
	RunE: runMediaAdd,
}

var mediaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered media",
	Args:  cobra.NoArgs,
	RunE:  runMediaList,
}

var mediaDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a media record",
	Args:  cobra.ExactArgs(1),
	RunE:  runMediaDelete,
}

func init() {
	mediaAddCmd.Flags().StringVar(&mediaProject, "project", "", "owning project id (required)")
	mediaAddCmd.Flags().StringVar(&mediaFileName, "file-name", "", "original file name (required)")
	mediaAddCmd.Flags().StringVar(&mediaMimeType, "mime-type", "", "declared content type")
	mediaAddCmd.Flags().Int64Var(&mediaSize, "size", 0, "asset size in bytes")
	_ = mediaAddCmd.MarkFlagRequired("project")
	_ = mediaAddCmd.MarkFlagRequired("file-name")

	mediaListCmd.Flags().StringVar(&mediaProject, "project", "", "filter by project id")

	mediaCmd.AddCommand(mediaAddCmd)
	mediaCmd.AddCommand(mediaListCmd)
	mediaCmd.AddCommand(mediaDeleteCmd)
}

func runMediaAdd(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableMedia)
	if err != nil {
		return err
	}
	m := &types.Media{
		ProjectID: mediaProject,
		FileName:  mediaFileName,
		MimeType:  mediaMimeType,
		Size:      mediaSize,
	}
	id, err := table.Set("", m)
	if err != nil {
		return fmt.Errorf("add media: %w", err)
	}

	return printEntity(m, "Registered media: "+id)
}

func runMediaList(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableMedia)
	if err != nil {
		return err
	}
	filter := map[string]any{}
	if mediaProject != "" {
		filter["project_id"] = mediaProject
	}
	entities, err := table.Fetch(filter)
	if err != nil {
		return fmt.Errorf("list media: %w", err)
	}

	return printList(entities, func(e any) string {
		m := e.(*types.Media)
		return fmt.Sprintf("%s  %s  %s  %d bytes", m.MediaID, m.FileName, m.MimeType, m.Size)
	})
}

func runMediaDelete(cmd *cobra.Command, args []string) error {
	backend, err := attachBackend()
	if err != nil {
		return err
	}
	defer backend.Detach()

	table, err := backend.GetTable(types.TableMedia)
	if err != nil {
		return err
	}
	if err := table.Delete(args[0]); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}

	fmt.Println("Deleted media:", args[0])
	return nil
}
