// Copyright (c) 2025 ToeiRei
// uidcolumn - UID column types for bun-backed stores
// This source code is licensed under the MIT license found in the LICENSE file.

package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"
	"github.com/toeirei/uidcolumn/internal/i18n"
	"github.com/toeirei/uidcolumn/internal/uid"
	"github.com/toeirei/uidcolumn/internal/uidtype"
	"github.com/uptrace/bun/dialect"
)

// clipboardWrite is replaced in tests.
var clipboardWrite = clipboard.WriteAll

// lookupType resolves a column type name, listing the known names on failure.
func lookupType(name string) (uidtype.Column, error) {
	col, err := registry.Lookup(name)
	if errors.Is(err, uidtype.ErrUnknownType) {
		return nil, errors.New(i18n.T("error.unknown_type", name, strings.Join(registry.Names(), ", ")))
	}
	return col, err
}

// localizeConversion replaces a ConversionError with its translated message.
func localizeConversion(err error, value, typeName string) error {
	if errors.Is(err, uidtype.ErrConversionFailed) {
		return errors.New(i18n.T("error.conversion", value, typeName))
	}
	return err
}

// kindOf returns the uid family a column produces.
func kindOf(col uidtype.Column) string {
	v, err := col.Generate()
	if err != nil {
		return "-"
	}
	return v.Kind()
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered column types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rows [][]string
			for _, name := range registry.Names() {
				col, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					name,
					kindOf(col),
					col.SQLDeclaration(dialect.PG),
					col.SQLDeclaration(dialect.MySQL),
					col.SQLDeclaration(dialect.SQLite),
					col.CommentHint(),
				})
			}
			printTable(cmd.OutOrStdout(),
				[]string{i18n.T("types.name"), i18n.T("types.family"), "POSTGRES", "MYSQL", "SQLITE", i18n.T("types.hint")},
				rows)
			return nil
		},
	}
}

func newConvertCmd() *cobra.Command {
	var typeName string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert values between database and application form",
	}
	cmd.PersistentFlags().StringVarP(&typeName, "type", "t", uidtype.UUIDTypeName, "Column type name")

	toDB := &cobra.Command{
		Use:   "to-db <value>",
		Short: "Render a value as it is stored in the column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := lookupType(typeName)
			if err != nil {
				return err
			}
			v, err := col.ToDatabaseValue(args[0])
			if err != nil {
				return localizeConversion(err, args[0], typeName)
			}
			if v == nil {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("convert.null"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v)
			return nil
		},
	}
	toApp := &cobra.Command{
		Use:   "to-app <value>",
		Short: "Read a stored column value into its application form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			col, err := lookupType(typeName)
			if err != nil {
				return err
			}
			v, err := col.ConvertToApplication(args[0])
			if err != nil {
				return localizeConversion(err, args[0], typeName)
			}
			if v == nil {
				fmt.Fprintln(cmd.OutOrStdout(), i18n.T("convert.null"))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), v.String())
			return nil
		},
	}
	cmd.AddCommand(toDB, toApp)
	return cmd
}

func newGenerateCmd() *cobra.Command {
	var (
		typeName string
		count    int
		copyOut  bool
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate new values of a column type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if count < 1 {
				return fmt.Errorf("--count must be at least 1")
			}
			col, err := lookupType(typeName)
			if err != nil {
				return err
			}
			values := make([]string, 0, count)
			for i := 0; i < count; i++ {
				v, err := col.Generate()
				if err != nil {
					return err
				}
				values = append(values, v.String())
			}
			out := strings.Join(values, "\n")
			fmt.Fprintln(cmd.OutOrStdout(), out)
			if copyOut {
				if err := clipboardWrite(out); err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), i18n.T("generate.copied", len(values)))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typeName, "type", "t", uidtype.UUIDTypeName, "Column type name")
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of values")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Copy the values to the clipboard")
	return cmd
}

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <value>",
		Short: "Show which column types accept a value and what it encodes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				accepted []string
				value    uid.UID
			)
			for _, name := range registry.Names() {
				col, err := registry.Lookup(name)
				if err != nil {
					return err
				}
				v, err := col.ConvertToApplication(args[0])
				if err != nil || v == nil {
					continue
				}
				accepted = append(accepted, name)
				// Prefer the UUID reading; it carries version and time.
				if value == nil || v.Kind() == uid.KindUUID {
					value = v
				}
			}
			if len(accepted) == 0 {
				return errors.New(i18n.T("inspect.none"))
			}

			fields := [][2]string{
				{i18n.T("inspect.value"), args[0]},
				{i18n.T("inspect.type"), strings.Join(accepted, ", ")},
				{i18n.T("inspect.rfc4122"), value.RFC4122()},
			}
			switch v := value.(type) {
			case uid.UUID:
				fields = append(fields,
					[2]string{i18n.T("inspect.base32"), v.Base32()},
					[2]string{i18n.T("inspect.version"), fmt.Sprint(v.Version())})
				if ts, ok := v.Time(); ok {
					fields = append(fields, [2]string{i18n.T("inspect.time"), ts.UTC().Format("2006-01-02T15:04:05.000Z07:00")})
				}
			case uid.ULID:
				fields = append(fields,
					[2]string{i18n.T("inspect.base32"), v.String()},
					[2]string{i18n.T("inspect.time"), v.Time().UTC().Format("2006-01-02T15:04:05.000Z07:00")})
			}
			printFields(cmd.OutOrStdout(), fields)
			return nil
		},
	}
}
