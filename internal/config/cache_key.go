package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// UserSessionKey returns the cache key for a user's active login session.
func (r *CacheKeyStruct) UserSessionKey(userID int) string {
	return fmt.Sprintf("login:%d", userID)
}

// TeacherClassesKey returns the cache key for a teacher's assigned classes.
func (r *CacheKeyStruct) TeacherClassesKey(teacherID int) string {
	return fmt.Sprintf("teacher:%d:classes", teacherID)
}

// AttendanceFeedChannel returns the Redis PubSub channel carrying live
// attendance events.
func (r *CacheKeyStruct) AttendanceFeedChannel() string {
	return "attendance:feed"
}

var CacheKey = NewCacheKeyStruct()
