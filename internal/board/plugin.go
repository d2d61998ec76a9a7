package board

import (
	"image"
	"image/color"
	"image/draw"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gopkg.in/yaml.v3"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// Manifest is a plugin subdirectory's board.yaml — the declarative tier
// spec.md's design notes describe alongside the compile-time registry:
// a plugin that needs nothing more than a templated text/clock board
// doesn't need to ship Go source at all.
type Manifest struct {
	Name           string `yaml:"name"`
	Kind           string `yaml:"kind"` // "text" | "clock"
	Enabled        bool   `yaml:"enabled"`
	Priority       int    `yaml:"priority"`
	RefreshSeconds int    `yaml:"refresh_seconds"`
	Text           string `yaml:"text,omitempty"`
}

// LoadPlugins scans dir for subdirectories carrying a board.yaml manifest
// and returns one templated Board per valid manifest. A missing dir is
// not an error (§4.7 implies plugins are optional). A malformed manifest
// (unreadable file, invalid YAML, unknown kind) is logged and skipped —
// one bad plugin must not block the rest.
func LoadPlugins(dir string, logger *logging.Logger) []Board {
	if logger == nil {
		logger = logging.Default()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("board: failed to scan plugin directory", "dir", dir, "error", err)
		}
		return nil
	}

	var boards []Board
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		manifestPath := filepath.Join(dir, entry.Name(), "board.yaml")
		raw, err := os.ReadFile(manifestPath)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("board: failed to read plugin manifest", "plugin", entry.Name(), "error", err)
			}
			continue
		}

		var manifest Manifest
		if err := yaml.Unmarshal(raw, &manifest); err != nil {
			logger.Warn("board: malformed plugin manifest", "plugin", entry.Name(), "error", err)
			continue
		}

		b, err := newTemplatedBoard(manifest)
		if err != nil {
			logger.Warn("board: failed to instantiate plugin board", "plugin", entry.Name(), "error", err)
			continue
		}
		boards = append(boards, b)
	}
	return boards
}

// templatedBoard is the generic text/clock board a plugin manifest
// configures without any compiled Go.
type templatedBoard struct {
	manifest Manifest
}

func newTemplatedBoard(m Manifest) (Board, error) {
	switch m.Kind {
	case "text", "clock":
		if m.RefreshSeconds <= 0 {
			m.RefreshSeconds = 30
		}
		return &templatedBoard{manifest: m}, nil
	default:
		return nil, &unknownKindError{kind: m.Kind}
	}
}

type unknownKindError struct{ kind string }

func (e *unknownKindError) Error() string {
	return "board: unknown plugin kind " + e.kind
}

func (b *templatedBoard) Name() string       { return b.manifest.Name }
func (b *templatedBoard) Enabled() bool      { return b.manifest.Enabled }
func (b *templatedBoard) Priority() int      { return b.manifest.Priority }
func (b *templatedBoard) ShouldDisplay(Context) bool { return b.manifest.Enabled }
func (b *templatedBoard) Update(Context)     {}
func (b *templatedBoard) OnEnter()           {}
func (b *templatedBoard) OnExit()            {}
func (b *templatedBoard) HandleInput(string, any) bool { return false }

func (b *templatedBoard) RefreshRate() time.Duration {
	return time.Duration(b.manifest.RefreshSeconds) * time.Second
}

func (b *templatedBoard) Render(buf *image.RGBA, ctx Context) {
	draw.Draw(buf, buf.Bounds(), &image.Uniform{C: color.Black}, image.Point{}, draw.Src)

	text := b.manifest.Text
	if b.manifest.Kind == "clock" {
		text = ctx.Now.Format("15:04:05")
	}
	drawCenteredText(buf, text, color.White)
}

func drawCenteredText(buf *image.RGBA, text string, c color.Color) {
	face := basicfont.Face7x13
	width := font.MeasureString(face, text).Round()
	bounds := buf.Bounds()
	x := (bounds.Dx() - width) / 2
	y := bounds.Dy()/2 + face.Metrics().Ascent.Round()/2

	drawer := font.Drawer{
		Dst:  buf,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	drawer.DrawString(text)
}
