package help

const ColdstartYAML = `# book-wordfreq Quick Start

modes:
  unigram: "Count every normalized word inside the story body (default)"
  dimensional: "Count vocabulary words per publication year (needs --vocab)"

commands:
  count_books: |
    book-wordfreq run books/

  count_urls: |
    book-wordfreq run https://www.gutenberg.org/files/2701/2701-0.txt

  english_only: |
    book-wordfreq run --english-only --workers 8 books/

  per_year: |
    book-wordfreq run --mode unigram --output top.txt books/
    book-wordfreq run --mode dimensional --vocab top.txt --output by-year.txt yearly/

  staged: |
    cat book.txt | book-wordfreq map | book-wordfreq sort | book-wordfreq reduce

  staged_dimensional: |
    cat yearly.txt | book-wordfreq map --mode dimensional --vocab top.txt \
      | book-wordfreq sort --chunk-lines 500000 --temp-dir /tmp \
      | book-wordfreq reduce --mode dimensional

  list_runs: |
    book-wordfreq db runs

  top_words: |
    book-wordfreq db top --limit 50 3

record_formats:
  unigram: "word<TAB>1"
  dimensional: "word<TAB>year<TAB>1"
  unigram_output: "word<TAB>count, count descending then word ascending"
  dimensional_output: "Word: w (Total: n) then '  year: count' per year"

metadata_blocks: |
  =====
  Title: Some Book
  Year: 1851
  =====

boundaries:
  - "Text before '*** START OF' and after '*** END OF' is never counted"
  - "A table of contents starts at a line reading 'Contents', 'Table of Contents' or 'Index'"
  - "Chapter headings in a table of contents only count man, holmes and house"
  - "The story resumes at the first sentence-like line"

words:
  - "Lowercase, letters only, at least 3 characters"
  - "English stop words are dropped"
  - "Possessives of holmes, watson, lestrade, hudson, moriarty, ahab, ishmael count as the name"
  - "--stem reduces words to their Snowball stem"

config_file: |
  mode: unigram
  workers: 4
  partitions: 4
  cache_dir: .cache/book-wordfreq
  cache_ttl: 24h
  english_only: true
  top: 25

error_behavior:
  - "Malformed records are skipped and counted, never fatal"
  - "Dimensional mode without a readable vocabulary fails before any output"
  - "Sources that fail to load are reported in the manifest; the run continues"
`
