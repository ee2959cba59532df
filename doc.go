package tagtree

// Package tagtree provides:
//
// - A tagged-type Registry mapping (tag, version) pairs to converters for
//   native scientific model objects (Register/LookupTag/LookupType)
// - A recursive tree Codec turning native values into primitive trees
//   (maps, sequences, scalars, Tagged nodes) and back (Encode/Decode)
// - A stable error model via Issues (path, code, message)
// - Wire drivers under wire/ for YAML (native tags) and JSON ($tag envelope)
//
// Design policy:
// - Keep only public APIs in the root package; put detailed implementations under internal/.
// - Place domain types and their converters under their own packages (unit/),
//   wire drivers under wire/, and the CLI under cmd/tagtree.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//  reg := tagtree.NewRegistry()
//  _ = unit.Register(reg)
//  c := tagtree.NewCodec(reg)
//
//  node, err := c.Encode(ctx, unit.Chain(unit.MassEnergy(), unit.Spectral()))
//  data, err := yamlwire.Marshal(node)
//
//  node2, err := yamlwire.Unmarshal(data)
//  v, err := c.Decode(ctx, node2)
