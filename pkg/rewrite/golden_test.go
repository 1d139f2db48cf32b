package rewrite_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/yaklabco/docsplice/pkg/rewrite"
)

type goldenFile struct {
	Cases []goldenCase `yaml:"cases"`
}

type goldenCase struct {
	Name   string `yaml:"name"`
	Shrink int    `yaml:"shrink"`
	Links  []struct {
		Label string `yaml:"label"`
		URL   string `yaml:"url"`
	} `yaml:"links"`
	Input string `yaml:"input"`
	Want  string `yaml:"want"`
}

func TestRewriteGolden(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile(filepath.Join("testdata", "golden.yaml"))
	require.NoError(t, err)

	var file goldenFile
	require.NoError(t, yaml.Unmarshal(raw, &file))
	require.NotEmpty(t, file.Cases)

	for _, tc := range file.Cases {
		t.Run(tc.Name, func(t *testing.T) {
			t.Parallel()

			links := make([]rewrite.Link, len(tc.Links))
			for i, l := range tc.Links {
				links[i] = rewrite.Link{Label: l.Label, URL: l.URL}
			}

			got := rewrite.Rewrite(tc.Input, rewrite.Options{
				ShrinkHeadings: tc.Shrink,
				Links:          links,
			})
			assert.Equal(t, tc.Want, got)
		})
	}
}
