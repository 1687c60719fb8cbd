package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hrygo/rehearse/plugin/ai/review"
)

var seedCmd = &cobra.Command{
	Use:   "seed <facts.yaml>",
	Short: "Append facts from a YAML file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		facts, err := parseSeed(f)
		if err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		h, err := openHost(cmd.Context(), instanceProfile)
		if err != nil {
			return err
		}
		defer h.Close()

		svc := h.facts()
		for _, fact := range facts {
			if _, err := svc.Add(cmd.Context(), fact); err != nil {
				return err
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "added %d facts for patient %s\n", len(facts), svc.PatientID())
		return nil
	},
}

type seedFile struct {
	Facts []seedFact `yaml:"facts"`
}

type seedFact struct {
	Prompt   string   `yaml:"prompt"`
	Answer   string   `yaml:"answer"`
	Topic    string   `yaml:"topic"`
	Keywords []string `yaml:"keywords"`
	Hints    []string `yaml:"hints"`
}

// parseSeed reads a facts file. Unknown keys are rejected.
func parseSeed(r io.Reader) ([]*review.Fact, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file seedFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("no facts")
		}
		return nil, err
	}
	if len(file.Facts) == 0 {
		return nil, fmt.Errorf("no facts")
	}

	facts := make([]*review.Fact, 0, len(file.Facts))
	for i, sf := range file.Facts {
		prompt := strings.TrimSpace(sf.Prompt)
		answer := strings.TrimSpace(sf.Answer)
		if prompt == "" || answer == "" {
			return nil, fmt.Errorf("fact %d: prompt and answer are required", i+1)
		}
		facts = append(facts, &review.Fact{
			Prompt:   prompt,
			Answer:   answer,
			Topic:    strings.TrimSpace(sf.Topic),
			Keywords: sf.Keywords,
			Hints:    sf.Hints,
		})
	}
	return facts, nil
}
