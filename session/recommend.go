package session

import (
	"strings"

	"github.com/MrEthical07/goSignin/internal"
)

// SharedTerminalAutoSignOutMinutes is the inactivity window recommended for
// shared or public terminals.
const SharedTerminalAutoSignOutMinutes = 15

// Environment carries the heuristic signals [Recommend] classifies.
type Environment struct {
	Hostname  string
	UserAgent string
}

// Recommendation is the advisory output of [Recommend], used only when no
// saved preference exists.
type Recommendation struct {
	Mode               Mode
	AutoSignOutMinutes int
	Reason             string
}

var sharedTerminalMarkers = []string{
	"kiosk",
	"public",
	"library",
	"shared",
	"guest",
	"cafe",
	"lab",
}

// Recommend classifies the environment and suggests a persistence mode.
// Shared-terminal signals win over everything else: a public machine gets a
// tab-scoped session with a short auto-sign-out. Mobile devices and personal
// desktops get durable sessions with no timeout.
func Recommend(env Environment) Recommendation {
	host := strings.ToLower(env.Hostname)
	ua := strings.ToLower(env.UserAgent)
	for _, marker := range sharedTerminalMarkers {
		if strings.Contains(host, marker) || strings.Contains(ua, marker) {
			return Recommendation{
				Mode:               ModeTabSession,
				AutoSignOutMinutes: SharedTerminalAutoSignOutMinutes,
				Reason:             "shared_terminal",
			}
		}
	}

	if internal.DetectDeviceClass(env.UserAgent) == internal.DeviceMobile {
		return Recommendation{Mode: ModeDurable, Reason: "mobile_device"}
	}

	return Recommendation{Mode: ModeDurable, Reason: "personal_device"}
}
