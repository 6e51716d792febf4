package env

import (
	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

const appID = "dcm.go"

// DeviceID retrieves the ID identifying this DCM. It's derived from the
// machine ID without exposing it, or "unknown" if unavailable.
func DeviceID() string {
	id, err := machineid.ProtectedID(appID)
	if err != nil {
		glog.Warningf("machine id: %v", err)
		return "unknown"
	}
	return id[:16]
}
