/*
Package session coordinates project creation sessions.

It serializes work on the same project directory (in process, and across processes
when a distributed locker is configured) and turns the outcome of a creation run into
a persisted project record.
*/
package session
