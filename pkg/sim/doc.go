// Package sim provides a simulated pacemaker speaking the DCM wire
// protocol, served over TCP or websocket.
package sim
