/*
Package ports defines the driven ports (interfaces) of tabula.

These interfaces decouple the adapter from external implementations, allowing
it to drive any table engine and to persist table state in various backends.

# Key Interfaces

  - Engine: the headless table engine the adapter keeps in sync.
  - StateStore: Responsible for persisting and loading table State snapshots.
  - DistributedLocker: Provides distributed locking for concurrent access to a table's snapshot.
*/
package ports
