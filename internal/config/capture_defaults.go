package config

import "runtime"

// ffmpeg input format and device for the default microphone.
func defaultCaptureFormat() string {
	switch runtime.GOOS {
	case "darwin":
		return "avfoundation"
	case "windows":
		return "dshow"
	}
	return "pulse"
}

func defaultCaptureDevice() string {
	switch runtime.GOOS {
	case "darwin":
		return ":0"
	case "windows":
		return "audio=default"
	}
	return "default"
}
