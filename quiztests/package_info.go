// Package quiztests contains the quiz platform workflows themselves: the six phases, the
// artifact extraction helpers that carry data from one phase to the next, the per-role
// session store, and the suite driver that runs the phases in their fixed order.
//
// Infrastructure that is not specific to the quiz platform, such as phase isolation and
// result collection, is in the lower-level framework package. Issuing HTTP calls is the job
// of the client package.
package quiztests
