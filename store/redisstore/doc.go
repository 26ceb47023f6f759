// Package redisstore implements accountcore.UserStore on Redis.
//
// Each user is a hash at {prefix}:user:{id}. A string key at
// {prefix}:email:{lowercased email} holds the owning id and enforces
// case-insensitive uniqueness. Create, Update and Delete run as Lua scripts so
// the hash and its email claim change atomically.
package redisstore
