// Package imu extracts static-movement information from inertial sensor
// recordings: sliding-window variance detection of static moments and
// summary features over the resulting static sequences.
package imu
