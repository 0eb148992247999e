package logfields

import "log/slog"

// Canonical log field names shared by every package.
const (
	KeyRunID      = "run_id"
	KeyStage      = "stage"
	KeyPage       = "page"
	KeyLanguage   = "lang"
	KeyPath       = "path"
	KeyOutput     = "output"
	KeyRoute      = "route"
	KeyAsset      = "asset"
	KeyPlugin     = "plugin"
	KeyFiles      = "files"
	KeyDurationMS = "duration_ms"
	KeyStatus     = "status"
	KeyError      = "error"
)

func RunID(id string) slog.Attr       { return slog.String(KeyRunID, id) }
func Stage(name string) slog.Attr     { return slog.String(KeyStage, name) }
func Page(key string) slog.Attr       { return slog.String(KeyPage, key) }
func Language(code string) slog.Attr  { return slog.String(KeyLanguage, code) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func Output(dir string) slog.Attr     { return slog.String(KeyOutput, dir) }
func Route(path string) slog.Attr     { return slog.String(KeyRoute, path) }
func Asset(url string) slog.Attr      { return slog.String(KeyAsset, url) }
func Plugin(name string) slog.Attr    { return slog.String(KeyPlugin, name) }
func Files(n int) slog.Attr           { return slog.Int(KeyFiles, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Status(s string) slog.Attr       { return slog.String(KeyStatus, s) }

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
