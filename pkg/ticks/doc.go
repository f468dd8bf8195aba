// Package ticks places axis ticks.
//
// The date locators are deliberately more conservative than general-purpose
// ones: a news chart should carry as few x-axis labels as the reader needs to
// orient themselves. Value ticks use "nice" steps (1, 2, 2.5, 5 × 10^n) and
// [Label] takes care of picking enough decimals to keep labels unique.
package ticks
