/*
Package domain contains the table models shared by the adapter, the engine and
every surface built on top of them.

It defines the table State, the Updater delivered through the engine's
state-change callback, the Options an engine is configured with and the
column definitions whose header and cell descriptors are resolved by the
render package. The package holds no I/O and no synchronization logic.

# Key Entities

  - State: the mutable table state keyed by feature (sorting, pagination, ...).
  - Updater: a full replacement State or a function of the previous State.
  - Options: the engine configuration (data, columns, state, callbacks).
  - StateDiff: the keys that changed between two states, for streaming clients.
*/
package domain
