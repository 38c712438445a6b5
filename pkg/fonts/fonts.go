// Package fonts locates the TrueType fonts used for PDF rendering.
//
// DejaVu Sans is preferred because it covers the accented Latin and Czech
// characters the documents print. When no TTF is found, rendering falls back
// to the PDF core Helvetica font with cp1252 encoding.
package fonts

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
)

// Font file names searched for in each directory.
const (
	RegularFile = "DejaVuSans.ttf"
	BoldFile    = "DejaVuSans-Bold.ttf"
)

// Family names registered with the PDF writer.
const (
	FamilyDejaVu    = "DejaVu"
	FamilyHelvetica = "Helvetica"
)

// SearchDirs are tried in order after the configured paths.
var SearchDirs = []string{
	"fonts",
	"/usr/share/fonts/TTF",
	"/usr/share/fonts/truetype/dejavu",
	"/usr/share/fonts/dejavu",
}

// Config holds explicitly configured font files. Empty fields are searched.
type Config struct {
	Regular string
	Bold    string
}

// Set is a resolved font pair.
type Set struct {
	Family  string
	Regular string // TTF path, empty for core fonts
	Bold    string // TTF path, empty for core fonts
	UTF8    bool   // false means core font with cp1252 text
}

// Core returns the built-in Helvetica set.
func Core() Set {
	return Set{Family: FamilyHelvetica}
}

// Resolve returns the first complete regular/bold pair found, or the core
// set. A configured file that does not exist is logged and ignored.
func Resolve(cfg Config) Set {
	if cfg.Regular != "" {
		if !exists(cfg.Regular) {
			log.Warn("configured font not found", "path", cfg.Regular)
		} else {
			bold := cfg.Bold
			if bold == "" || !exists(bold) {
				if bold != "" {
					log.Warn("configured bold font not found", "path", bold)
				}
				bold = cfg.Regular
			}
			return Set{Family: FamilyDejaVu, Regular: cfg.Regular, Bold: bold, UTF8: true}
		}
	}

	for _, dir := range SearchDirs {
		regular := filepath.Join(dir, RegularFile)
		bold := filepath.Join(dir, BoldFile)
		if exists(regular) && exists(bold) {
			log.Debug("using fonts", "dir", dir)
			return Set{Family: FamilyDejaVu, Regular: regular, Bold: bold, UTF8: true}
		}
	}

	log.Warn("DejaVu fonts not found, falling back to Helvetica", "searched", SearchDirs)
	return Core()
}

func exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
