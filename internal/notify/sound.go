package notify

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// supportedAudioExtensions contains file extensions supported for sounds
var supportedAudioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".aiff": true,
	".aif":  true,
	".ogg":  true,
	".oga":  true,
	".flac": true,
	".m4a":  true,
}

// ValidateSoundFile checks that the sound file exists and has a supported format.
// It returns the path when usable and "" otherwise, logging a warning for
// anything other than an empty path.
func ValidateSoundFile(soundFile string, logger *slog.Logger) string {
	if soundFile == "" {
		return ""
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	info, err := os.Stat(soundFile)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("sound file not found", "path", soundFile)
		} else {
			logger.Warn("cannot access sound file", "path", soundFile, "error", err)
		}
		return ""
	}

	if info.IsDir() {
		logger.Warn("sound path is a directory", "path", soundFile)
		return ""
	}

	ext := strings.ToLower(filepath.Ext(soundFile))
	if !supportedAudioExtensions[ext] {
		logger.Warn("unsupported audio format", "extension", ext, "path", soundFile)
		return ""
	}

	return soundFile
}
