package commands

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/config"
	"github.com/noteforge/noteforge/internal/domain"
)

func TestPageImages(t *testing.T) {
	images, err := pageImages([]string{"a.PNG", "b.jpeg", "c.jpg", "d.webp"})
	require.NoError(t, err)

	want := []string{"image/png", "image/jpeg", "image/jpeg", "image/webp"}
	for i, img := range images {
		assert.Equal(t, i, img.Index)
		assert.Equal(t, want[i], img.MediaType)
	}

	_, err = pageImages([]string{"notes.gif"})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeValidation, domain.TypeOf(err))
}

func TestDefaultOutput(t *testing.T) {
	assert.Equal(t, "notes/page1.tex", defaultOutput("notes/page1.jpg", ".tex"))
	assert.Equal(t, "scan-pages", defaultOutput("scan.pdf", "-pages"))
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"version"})
	defer rootCmd.SetArgs(nil)

	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "noteforge version "+config.Version+"\n", out.String())
}

func TestConvertCommand_RequiresInput(t *testing.T) {
	rootCmd.SetArgs([]string{"convert"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least one image")
}
