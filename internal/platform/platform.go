// Package platform maps the host operating system to the notification
// platforms opencode-notify knows how to drive.
package platform

import "runtime"

// Platform identifies a notification backend.
type Platform string

const (
	// Darwin uses osascript and afplay
	Darwin Platform = "darwin"
	// Linux uses notify-send and paplay/aplay
	Linux Platform = "linux"
	// Windows uses PowerShell toasts and System.Media.SoundPlayer
	Windows Platform = "windows"
	// Unsupported has no notification mechanism; everything is a no-op
	Unsupported Platform = "unsupported"
)

// Built-in notification sounds shipped with each OS.
const (
	DefaultDarwinSound  = "/System/Library/Sounds/Glass.aiff"
	DefaultLinuxSound   = "/usr/share/sounds/freedesktop/stereo/complete.oga"
	DefaultWindowsSound = `C:\Windows\Media\notify.wav`
)

// Detect returns the platform for the running OS.
func Detect() Platform {
	return FromGOOS(runtime.GOOS)
}

// FromGOOS maps a GOOS value to a Platform.
func FromGOOS(goos string) Platform {
	switch goos {
	case "darwin":
		return Darwin
	case "linux":
		return Linux
	case "windows":
		return Windows
	default:
		return Unsupported
	}
}

// Supported reports whether p has a notification mechanism.
func (p Platform) Supported() bool {
	return p == Darwin || p == Linux || p == Windows
}

// String returns the platform tag
func (p Platform) String() string {
	return string(p)
}

// DefaultSoundPath returns the built-in sound for p, or "" when unsupported.
func DefaultSoundPath(p Platform) string {
	switch p {
	case Darwin:
		return DefaultDarwinSound
	case Linux:
		return DefaultLinuxSound
	case Windows:
		return DefaultWindowsSound
	default:
		return ""
	}
}
