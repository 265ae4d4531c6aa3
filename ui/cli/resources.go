// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/toeirei/uidcolumn/internal/db"
	"github.com/toeirei/uidcolumn/internal/i18n"
	"github.com/toeirei/uidcolumn/internal/uidtype"
)

func printResources(w io.Writer, resources []db.Resource) {
	if len(resources) == 0 {
		fmt.Fprintln(w, i18n.T("resource.none"))
		return
	}
	rows := make([][]string, 0, len(resources))
	for _, r := range resources {
		rows = append(rows, []string{
			r.ID.String(),
			r.Name,
			r.ParentID.String(),
			r.TraceID.String(),
			r.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		})
	}
	printTable(w, []string{"ID", "NAME", "PARENT", "TRACE", "CREATED"}, rows)
}

// resourceErr translates store errors for the given id.
func resourceErr(err error, id string) error {
	if errors.Is(err, db.ErrNotFound) {
		return errors.New(i18n.T("resource.not_found", id))
	}
	return localizeConversion(err, id, uidtype.UUIDTypeName)
}

func newResourceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "resource",
		Aliases: []string{"resources", "res"},
		Short:   "Manage resources",
	}

	var parent, trace string
	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				r, err := s.CreateResource(cmd.Context(), db.NewResource{Name: args[0], ParentID: parent, TraceID: trace})
				if err != nil {
					if errors.Is(err, db.ErrNotFound) {
						return errors.New(i18n.T("resource.not_found", parent))
					}
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("resource.created", r.ID))
				return nil
			})
		},
	}
	add.Flags().StringVar(&parent, "parent", "", "Parent resource id")
	add.Flags().StringVar(&trace, "trace", "", "Trace id (ULID); generated when empty")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a resource as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				r, err := s.GetResource(cmd.Context(), args[0])
				if err != nil {
					return resourceErr(err, args[0])
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(r)
			})
		},
	}

	var traceFilter string
	list := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				var (
					out []db.Resource
					err error
				)
				if traceFilter != "" {
					out, err = s.FindByTrace(cmd.Context(), traceFilter)
					err = localizeConversion(err, traceFilter, uidtype.ULIDTypeName)
				} else {
					out, err = s.ListResources(cmd.Context())
				}
				if err != nil {
					return err
				}
				printResources(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}
	list.Flags().StringVar(&traceFilter, "trace", "", "Only resources created under this trace id")

	children := &cobra.Command{
		Use:   "children <id>",
		Short: "List the direct children of a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				out, err := s.ChildResources(cmd.Context(), args[0])
				if err != nil {
					return resourceErr(err, args[0])
				}
				printResources(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				if err := s.DeleteResource(cmd.Context(), args[0]); err != nil {
					return resourceErr(err, args[0])
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("resource.deleted", args[0]))
				return nil
			})
		},
	}

	cmd.AddCommand(add, get, list, children, del)
	return cmd
}

func newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Write all resources to a zstd-compressed backup file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
				if err != nil {
					return err
				}
				n, err := s.Export(cmd.Context(), f)
				if cerr := f.Close(); err == nil {
					err = cerr
				}
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("export.done", n, args[0]))
				return nil
			})
		},
	}
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Load resources from a backup file, skipping existing ids",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(cmd, func(s *db.Store) error {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				n, err := s.Import(cmd.Context(), f)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("import.done", n))
				return nil
			})
		},
	}
}
