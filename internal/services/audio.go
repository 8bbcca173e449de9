package services

import (
	"encoding/base64"
	"strings"

	"alfredoptarigan/vocalize/internal/apperrors"
)

// DecodeDataURL decodes "data:audio/webm;base64,<payload>" or a bare base64
// payload into raw audio bytes.
func DecodeDataURL(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, apperrors.Errorf(apperrors.KindValidation, "decode audio", "audio is required")
	}

	payload := s
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 {
			return nil, apperrors.Errorf(apperrors.KindValidation, "decode audio", "data URL has no payload")
		}
		payload = s[comma+1:]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		// Browsers occasionally emit unpadded or URL-safe payloads.
		unpadded := strings.TrimRight(payload, "=")
		for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.RawURLEncoding} {
			if alt, altErr := enc.DecodeString(unpadded); altErr == nil {
				data, err = alt, nil
				break
			}
		}
	}
	if err != nil {
		return nil, apperrors.Errorf(apperrors.KindValidation, "decode audio", "audio is not valid base64: %v", err)
	}
	if len(data) == 0 {
		return nil, apperrors.Errorf(apperrors.KindValidation, "decode audio", "audio is empty")
	}

	return data, nil
}
