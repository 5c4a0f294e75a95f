// Package chem holds the chemistry model: components, groups, terms and
// equations as produced by the parser, plus element composition extraction.
//
// Items of a term are a closed set. Component and Group are the only
// implementations of Item; code that needs to handle both implements
// Visitor, so a new variant fails to compile until every visitor covers it.
package chem
