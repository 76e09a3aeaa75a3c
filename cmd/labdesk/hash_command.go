package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"labdesk/internal/config"
	"labdesk/internal/fingerprint"
)

func newHashCommand(ctx *commandContext) *cobra.Command {
	var exclude string
	var canonical bool

	cmd := &cobra.Command{
		Use:   "hash [file|-]",
		Short: "Fingerprint a JSON document",
		Long: "Print the content hash of a JSON document read from a file or stdin. " +
			"For objects the top-level --exclude field is left out, as it is for stored projects.",
		Args:        cobra.MaximumNArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("exclude") {
				exclude = configuredExclude(ctx, exclude)
			}

			source := "-"
			if len(args) == 1 {
				source = args[0]
			}
			value, err := readJSONValue(cmd, source)
			if err != nil {
				return err
			}

			text, err := canonicalText(value, exclude)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if canonical {
				fmt.Fprintln(out, text)
			}
			fmt.Fprintln(out, fingerprint.Sum(text))
			return nil
		},
	}
	cmd.Flags().StringVar(&exclude, "exclude", fingerprint.DefaultExcludeField, "Top-level field left out of object hashes")
	cmd.Flags().BoolVar(&canonical, "canonical", false, "Also print the canonical text that is hashed")
	return cmd
}

// configuredExclude returns the configured exclude field, or fallback when no
// usable configuration can be read. Nothing is created on disk.
func configuredExclude(ctx *commandContext, fallback string) string {
	var path string
	if ctx.configFlag != nil {
		path = strings.TrimSpace(*ctx.configFlag)
	}
	cfg, _, _, err := config.Load(path)
	if err != nil || cfg == nil {
		return fallback
	}
	return cfg.Fingerprint.ExcludeField
}

func readJSONValue(cmd *cobra.Command, source string) (any, error) {
	var r io.Reader
	if source == "-" {
		r = cmd.InOrStdin()
	} else {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", source, err)
		}
		r = bytes.NewReader(data)
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var value any
	if err := dec.Decode(&value); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("no JSON document on input")
		}
		return nil, fmt.Errorf("decode JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("expected a single JSON document")
	}
	return value, nil
}

func canonicalText(value any, exclude string) (string, error) {
	if obj, ok := value.(map[string]any); ok {
		return fingerprint.CanonicalRecord(fingerprint.Record(obj), strings.TrimSpace(exclude))
	}
	return fingerprint.Canonicalize(value)
}
