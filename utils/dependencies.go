package utils

import (
	"fmt"
	"os/exec"
	"runtime"
)

// CheckVideoTools checks that ffmpeg and ffprobe are available in PATH
func CheckVideoTools() error {
	for _, tool := range []string{"ffprobe", "ffmpeg"} {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%s not found in PATH. %s", tool, ffmpegInstallInstructions())
		}
	}
	return nil
}

// CheckImageTools checks that avifenc is available in PATH
func CheckImageTools() error {
	if _, err := exec.LookPath("avifenc"); err != nil {
		return fmt.Errorf("avifenc not found in PATH. %s", avifencInstallInstructions())
	}
	return nil
}

// ffmpegInstallInstructions returns platform-specific installation instructions
func ffmpegInstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install ffmpeg"
	case "linux":
		return "Install with: apt-get install ffmpeg (Ubuntu/Debian) or yum install ffmpeg (CentOS/RHEL)"
	case "windows":
		return "Download from https://ffmpeg.org/download.html and add to PATH"
	default:
		return "Download from https://ffmpeg.org/download.html"
	}
}

// avifencInstallInstructions returns platform-specific installation instructions
func avifencInstallInstructions() string {
	switch runtime.GOOS {
	case "darwin":
		return "Install with: brew install libavif"
	case "linux":
		return "Install with: apt-get install libavif-bin (Ubuntu/Debian)"
	case "windows":
		return "Download from https://github.com/AOMediaCodec/libavif/releases and add to PATH"
	default:
		return "Download from https://github.com/AOMediaCodec/libavif/releases"
	}
}
