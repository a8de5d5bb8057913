// Package registry resolves player mentions to canonical identities.
//
// Every accepted match contributes one mention per player slot. Mentions
// are grouped by their normalized name with exact string equality, and each
// group becomes a Player whose id is a short sha1 prefix of that name. The
// same normalization is applied again when match rows are rewritten, so a
// row can only reference players that exist in the registry.
//
// Two names hashing to the same id abort the build. Players seen under
// conflicting gender tokens keep their first one and are listed in
// Registry.GenderConflicts.
package registry
