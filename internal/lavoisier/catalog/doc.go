// Package catalog provides the sample equations shipped with lavoisier.
//
// The default catalog is embedded YAML. A file with the same layout can
// replace it:
//
//	examples:
//	  - name: water
//	    equation: "H2 + O2 -> H2O"
//	    coefficients: [2, 1, 2]
package catalog
