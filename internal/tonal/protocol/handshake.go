package protocol

import (
	"github.com/hashicorp/go-plugin"
)

// PluginName is the name the tonal service is dispensed under.
const PluginName = "tonal"

// Handshake is the go-plugin handshake for tonal services.
// go-plugin compares ProtocolVersion exactly, so only the major version is
// used here; finer checks go through IsCompatible after dispensing.
var Handshake = plugin.HandshakeConfig{
	ProtocolVersion:  uint(GetCurrentVersion().Major),
	MagicCookieKey:   "MDYOU_TONAL_PLUGIN",
	MagicCookieValue: "mdyou_material_tonal",
}
