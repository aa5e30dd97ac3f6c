/*
Package session provides safe concurrent access to respondent state.

The Manager serializes operations per response ID using reference-counted
in-process locks, and optionally coordinates across replicas through a
ports.DistributedLocker. Within one respondent's session submissions are
assumed sequential, but retried requests and multi-replica deployments still
need the lock to keep the read-modify-write cycle atomic.
*/
package session
