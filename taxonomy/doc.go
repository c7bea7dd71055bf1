// Package taxonomy walks coded classification trees such as the Product and Service
// Code (PSC) taxonomy.
//
// A taxonomy is described by a RuleSet: the ordered top-level groups, each matched by a
// Rule over codes, and a DepthRule that gives the code length of the children of a
// parent code. The Walker turns a path of keys clicked through by a user into the next
// tier of nodes, reading codes from a domain.NodeRepository. Rule sets can be built in
// Go or loaded from Lua scripts.
package taxonomy
