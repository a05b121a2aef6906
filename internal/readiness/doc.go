// Package readiness implements a startup gate that blocks until a network
// dependency accepts connections and answers a liveness probe.
//
// A [Gate] polls its [Prober] sequentially at a fixed interval. The first
// successful probe ends the run in the Ready state and hands the live
// connection to the caller. If every attempt fails, the run ends Exhausted
// and [Gate.Await] returns a [*StartupError]. All probe errors are treated
// as transient unless [WithFailFast] says otherwise.
//
// Sleeps happen only between attempts: a dependency that becomes ready on
// attempt k costs k-1 sleeps, and an exhausted run of N attempts costs N-1.
package readiness
