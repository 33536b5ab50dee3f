package domain

import (
	"net/url"
	"strings"
)

const appCgroupPrefix = "app-"

// AppCgroupName is the directory name that holds an application group below
// the managed cgroup parent. ParseAppCgroupName reverses it.
func AppCgroupName(appGroupID string) string {
	return appCgroupPrefix + url.PathEscape(appGroupID)
}

// ParseAppCgroupName returns the application group id encoded by AppCgroupName.
func ParseAppCgroupName(name string) (string, bool) {
	encoded, ok := strings.CutPrefix(name, appCgroupPrefix)
	if !ok || encoded == "" {
		return "", false
	}
	id, err := url.PathUnescape(encoded)
	if err != nil {
		return "", false
	}
	return id, true
}
