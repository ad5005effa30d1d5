package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"website_backend/internal/intent/classifier"
	"website_backend/internal/intent/service"
	"website_backend/internal/intent/transport"
	"website_backend/platform/ai/chat"
	"website_backend/platform/config"
	"website_backend/platform/logger"

	"github.com/spf13/cobra"
)

type classifyOptions struct {
	useAI  bool
	format string
}

// classification is the printable form of one detection.
type classification struct {
	Text            string   `json:"text" yaml:"text"`
	Intent          string   `json:"intent" yaml:"intent"`
	Confidence      float64  `json:"confidence" yaml:"confidence"`
	Urgency         string   `json:"urgency" yaml:"urgency"`
	Source          string   `json:"source" yaml:"source"`
	SuggestedAction string   `json:"suggestedAction" yaml:"suggested_action"`
	Department      string   `json:"department" yaml:"department"`
	Priority        int      `json:"priority" yaml:"priority"`
	AutoResponse    bool     `json:"autoResponse" yaml:"auto_response"`
	Services        []string `json:"services,omitempty" yaml:"services,omitempty"`
	Email           string   `json:"email,omitempty" yaml:"email,omitempty"`
	Phone           string   `json:"phone,omitempty" yaml:"phone,omitempty"`
}

// completerFactory builds the model client for --ai. Tests replace it.
var completerFactory = func(ctx context.Context) (chat.Completer, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return chat.NewFromConfig(ctx, cfg)
}

func newClassifyCmd() *cobra.Command {
	opts := &classifyOptions{}

	cmd := &cobra.Command{
		Use:   "classify [text...]",
		Short: "Classify a chat message",
		Long: `Classify a chat message with the keyword rules, optionally refined by the
configured AI provider. Without arguments every non-empty line of stdin is
classified separately.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), args, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.useAI, "ai", false, "refine low-confidence results with the configured AI provider")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatText, "output format: text, json, yaml")
	return cmd
}

func runClassify(ctx context.Context, in io.Reader, out io.Writer, args []string, opts *classifyOptions) error {
	if err := validateFormat(opts.format); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	texts, err := inputTexts(in, args)
	if err != nil {
		return err
	}
	if len(texts) == 0 {
		return errors.New("nothing to classify: pass text as arguments or on stdin")
	}

	var completer chat.Completer
	if opts.useAI {
		completer, err = completerFactory(ctx)
		if err != nil {
			return fmt.Errorf("initialize AI provider: %w", err)
		}
		if completer == nil {
			return errors.New("--ai requires AI_PROVIDER to be configured")
		}
	}

	svc := service.New(classifier.New(completer, logger.Discard()), nil, logger.Discard())
	rows := make([]classification, 0, len(texts))
	for _, text := range texts {
		useAI := opts.useAI
		resp := svc.Detect(ctx, transport.DetectRequest{Text: text, UseAI: &useAI})
		rows = append(rows, toClassification(text, resp))
	}

	if opts.format == formatText {
		for _, row := range rows {
			writeClassification(out, row)
		}
		return nil
	}
	if len(args) > 0 {
		return writeStructured(out, opts.format, rows[0])
	}
	return writeStructured(out, opts.format, rows)
}

func inputTexts(in io.Reader, args []string) ([]string, error) {
	if len(args) > 0 {
		return []string{strings.Join(args, " ")}, nil
	}
	if in == nil {
		return nil, nil
	}

	data, err := io.ReadAll(io.LimitReader(in, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}
	var texts []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			texts = append(texts, line)
		}
	}
	return texts, nil
}

func toClassification(text string, resp transport.DetectResponse) classification {
	r := resp.Result
	return classification{
		Text:            text,
		Intent:          r.Intent.String(),
		Confidence:      r.Confidence,
		Urgency:         r.Urgency.String(),
		Source:          r.Source,
		SuggestedAction: r.SuggestedAction,
		Department:      resp.Routing.Department,
		Priority:        resp.Routing.Priority,
		AutoResponse:    resp.Routing.AutoResponse,
		Services:        r.Entities.Services,
		Email:           r.Entities.Email,
		Phone:           r.Entities.Phone,
	}
}

func writeClassification(out io.Writer, c classification) {
	fmt.Fprintf(out, "%s (%.2f, %s) urgency=%s department=%s priority=%d\n",
		c.Intent, c.Confidence, c.Source, c.Urgency, c.Department, c.Priority)
	fmt.Fprintf(out, "  action: %s\n", c.SuggestedAction)
	if len(c.Services) > 0 {
		fmt.Fprintf(out, "  services: %s\n", strings.Join(c.Services, ", "))
	}
	if c.Email != "" {
		fmt.Fprintf(out, "  email: %s\n", c.Email)
	}
	if c.Phone != "" {
		fmt.Fprintf(out, "  phone: %s\n", c.Phone)
	}
}
