// Package materialize rebuilds host-independent material descriptions as
// linked shader node graphs inside a host.
//
// Textures are materialized first with MaterializeTexture. MaterializeMaterial
// then looks up or creates the material, clears its node tree, applies the
// material properties, builds the nodes with BuildGraph and wires the final
// shader node into the material output. Texture references inside property
// and socket values are resolved against images that already exist in the
// resource.Cache; nothing is materialized on demand.
//
// Every failure is one of ResourceError, MissingReferenceError,
// InvalidPropertyError or GraphConsistencyError, matched with errors.As or
// with errors.Is against the package sentinels.
package materialize
