// Package result loads hit_sim output tables into columnar, masked datasets.
//
// Each artifact row records one particle leaving the detector stack:
//
//	x y z px py pz ekin species
//
// with positions in mm, momenta and kinetic energy in MeV, and no header.
// [Parse] keeps every row and derives two per-row quantities:
//
//   - the deflection angle atan2(px, pz) in the bend plane
//   - a validity flag, true only for [TargetSpecies] above [EnergyFloor]
//
// Invalid rows stay in place so that columns remain aligned for joint
// analysis; statistics read values through [Masked] and skip them.
package result
