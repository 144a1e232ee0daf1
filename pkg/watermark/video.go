package watermark

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

const videoMargin = 20

func (e *Engine) applyVideo(ctx context.Context, path string) error {
	fontFile, err := e.fontFilePath()
	if err != nil {
		return err
	}

	dir, base := filepath.Split(path)
	tmp := filepath.Join(dir, ".wm-"+base)

	ctx, cancel := context.WithTimeout(ctx, e.opts.VideoTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.opts.FFmpegPath,
		"-hide_banner", "-loglevel", "error", "-y",
		"-i", path,
		"-vf", e.drawtextFilter(fontFile),
		"-c:a", "copy",
		tmp,
	)
	cmd.WaitDelay = 5 * time.Second
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		_ = os.Remove(tmp)
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg: %v: %s", err, tail(stderr.String(), 512))
	}

	if info, err := os.Stat(tmp); err != nil || info.Size() == 0 {
		_ = os.Remove(tmp)
		return fmt.Errorf("ffmpeg produced no output")
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace: %w", err)
	}
	return nil
}

func (e *Engine) drawtextFilter(fontFile string) string {
	alpha := fmt.Sprintf("%.2f", e.opts.Opacity)
	return "drawtext=fontfile=" + escapeFilterValue(fontFile) +
		":text=" + escapeFilterValue(e.opts.Text) + ":expansion=none" +
		":fontcolor=white@" + alpha +
		":fontsize=max(24\\,h*0.05)" +
		":box=1:boxcolor=black@0.4:boxborderw=10" +
		fmt.Sprintf(":x=w-tw-%d:y=h-th-%d", videoMargin, videoMargin)
}

var (
	optionEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `:`, `\:`)
	graphEscaper  = strings.NewReplacer(`\`, `\\`, `'`, `\'`, `[`, `\[`, `]`, `\]`, `,`, `\,`, `;`, `\;`)
)

// escapeFilterValue applies both levels of ffmpeg filtergraph escaping.
func escapeFilterValue(s string) string {
	return graphEscaper.Replace(optionEscaper.Replace(s))
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
