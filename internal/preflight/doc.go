// Package preflight provides readiness checks for filesystem paths and
// external surfaces that Twang depends on.
//
// These checks run in two contexts:
//   - The daemon calls RunAll at startup. A failed check aborts the daemon
//     before it accepts analysis requests it cannot serve.
//   - The CLI "twang deps" command uses CheckSystemDeps to display binary
//     availability.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
