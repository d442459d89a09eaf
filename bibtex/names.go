package bibtex

// Builtin is a name BibTeX styles know without a declaration in the
// document.
type Builtin struct {
	Name string
	Doc  string
}

// EntryTypes are the declaration types understood by the standard styles,
// followed by the three special declarations.
var EntryTypes = []Builtin{
	{"article", "An article from a journal or magazine."},
	{"book", "A book with an explicit publisher."},
	{"booklet", "A work that is printed and bound, but without a named publisher."},
	{"conference", "The same as inproceedings."},
	{"inbook", "A part of a book, such as a chapter or a range of pages."},
	{"incollection", "A part of a book having its own title."},
	{"inproceedings", "An article in a conference proceedings."},
	{"manual", "Technical documentation."},
	{"mastersthesis", "A Master's thesis."},
	{"misc", "Use this type when nothing else fits."},
	{"phdthesis", "A PhD thesis."},
	{"proceedings", "The proceedings of a conference."},
	{"techreport", "A report published by a school or other institution."},
	{"unpublished", "A document having an author and title, but not formally published."},
	{"string", "Defines an abbreviation usable in field values."},
	{"preamble", "Text written verbatim at the start of the bibliography."},
	{"comment", "Text ignored by BibTeX."},
}

var FieldNames = []Builtin{
	{"address", "Usually the address of the publisher or other institution."},
	{"annote", "An annotation, ignored by the standard styles."},
	{"author", "The name(s) of the author(s), separated by \"and\"."},
	{"booktitle", "Title of a book, part of which is being cited."},
	{"chapter", "A chapter (or section or whatever) number."},
	{"crossref", "The key of the entry this entry inherits missing fields from."},
	{"doi", "The Digital Object Identifier of the work."},
	{"edition", "The edition of a book, for example \"Second\"."},
	{"editor", "Name(s) of editor(s), separated by \"and\"."},
	{"howpublished", "How something strange has been published."},
	{"institution", "The sponsoring institution of a technical report."},
	{"journal", "A journal name."},
	{"key", "Used for alphabetizing and labels when the author is missing."},
	{"month", "The month in which the work was published."},
	{"note", "Any additional information that can help the reader."},
	{"number", "The number of a journal, magazine, technical report or series."},
	{"organization", "The organization that sponsors a conference or publishes a manual."},
	{"pages", "One or more page numbers or range of numbers, such as 42--111."},
	{"publisher", "The publisher's name."},
	{"school", "The name of the school where a thesis was written."},
	{"series", "The name of a series or set of books."},
	{"title", "The work's title."},
	{"type", "The type of a technical report, for example \"Research Note\"."},
	{"url", "The address of the work on the web."},
	{"volume", "The volume of a journal or multi-volume book."},
	{"year", "The year of publication."},
}

// MonthMacros are the abbreviations predefined by the standard styles.
var MonthMacros = []Builtin{
	{"jan", "January"},
	{"feb", "February"},
	{"mar", "March"},
	{"apr", "April"},
	{"may", "May"},
	{"jun", "June"},
	{"jul", "July"},
	{"aug", "August"},
	{"sep", "September"},
	{"oct", "October"},
	{"nov", "November"},
	{"dec", "December"},
}
