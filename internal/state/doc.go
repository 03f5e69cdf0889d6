// Package state holds the dashboard's AppState and the reducer that owns
// every transition of it.
//
// Actions are typed values implementing Action. Reduce is a pure function of
// (state, action); an action whose payload fails its precondition is ignored
// and leaves the state, including its revision, unchanged. Store wraps the
// reducer with dispatch and subscriptions for a single session.
package state
