package store

// The modules table and the "module" edge kind are schema slots reserved
// for a future package/module-boundary layer. No writer populates them
// today; nothing in this package queries them either.
