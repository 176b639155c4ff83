/*
Package runtime drives a wizard session over a domain.FlowGraph and runs the creation
pipeline afterwards.

The Wizard owns the session goroutine: it calls step hooks, applies user input and
applies the results of background fetches scheduled by OnEnter. Fetches run on a
bounded pool and post their updates back over a channel, so the store only ever has
one writer. The Pipeline runs actions one after another on a dedicated goroutine and
reports the first failure as a *domain.ActionError.
*/
package runtime
