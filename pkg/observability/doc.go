/*
Package observability provides lifecycle hooks for monitoring the switchyard wizard
and creation pipeline.

LogHooks streams every step and action event to a structured logger. Hooks from
several sources are combined with domain.LifecycleHooks.Merge.
*/
package observability
