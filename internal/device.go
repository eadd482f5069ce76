package internal

import "strings"

// Device class names shared between the engine and the sign-in flows.
const (
	DeviceDesktop = "desktop"
	DeviceMobile  = "mobile"
)

var mobileMarkers = []string{
	"android",
	"iphone",
	"ipad",
	"ipod",
	"webos",
	"blackberry",
	"windows phone",
	"opera mini",
	"mobile",
}

// DetectDeviceClass classifies a user-agent string as mobile or desktop.
// Mobile devices get the redirect sign-in flow because embedded webviews
// routinely block or mishandle popup windows.
func DetectDeviceClass(userAgent string) string {
	ua := strings.ToLower(userAgent)
	for _, marker := range mobileMarkers {
		if strings.Contains(ua, marker) {
			return DeviceMobile
		}
	}
	return DeviceDesktop
}
