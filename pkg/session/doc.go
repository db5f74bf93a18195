/*
Package session persists table state across restarts.

A Manager serializes access to table snapshots per table ID, optionally
across replicas through a ports.DistributedLocker. Track persists the state
of a live adapter whenever it changes; Restore seeds a table's initial state
from the last saved snapshot.
*/
package session
