// Package classify assigns semantic roles to layout blocks.
//
// Classification runs one page at a time. Each page's font statistics are
// computed first (the largest span size and the most frequent span size),
// then every block is pushed through an ordered rule cascade that compares
// the block's average font size, word count, geometry, and leading text
// against those statistics. The first rule that matches wins; blocks that
// match nothing are paragraphs.
//
// # Rule Order
//
// The cascade tests, in order: image blocks, empty blocks, page titles,
// subheadings, minor headings, table-like regions, list items, and
// footnotes. Order matters: a large centered block near the top of the
// page is a title even if its text starts with a dash, because the title
// rule runs before the list rule.
//
// # Statistics
//
// The most frequent span size (the page's body size) is the baseline for
// every font-ratio rule. When two sizes are equally frequent the smaller
// wins, keeping the baseline conservative: headings compare against body
// text, not against other headings. Pages with no spans get zero for both
// statistics, so their text blocks fall through to the empty-block rule
// and nothing is left unlabeled.
//
// Classification is idempotent. It reads the fields normalization filled
// in and writes only Label and Semantic, so running it twice produces the
// same assignment.
package classify
