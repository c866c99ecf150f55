package keymap

// LoadDefaults loads all default tables into the registry.
func LoadDefaults(r *Registry) error {
	for _, km := range DefaultKeymaps() {
		if err := r.Register(km); err != nil {
			return err
		}
	}
	return nil
}

// DefaultKeymaps returns the built-in tables.
func DefaultKeymaps() []*Keymap {
	return []*Keymap{
		DefaultNormalKeymap(),
		DefaultInsertKeymap(),
		DefaultInputKeymap(),
		DefaultIgnoreKeymap(),
		DefaultVisualKeymap(),
		DefaultHintKeymap(),
		DefaultExKeymap(),
		DefaultBrowserKeymap(),
	}
}

// DefaultNormalKeymap returns default normal mode bindings.
func DefaultNormalKeymap() *Keymap {
	return &Keymap{
		Name:   "nmaps",
		Source: "default",
		Bindings: []Binding{
			// Scrolling
			{Keys: "j", Command: "scrollline 10", Description: "Scroll down"},
			{Keys: "<C-e>", Command: "scrollline 10", Description: "Scroll down"},
			{Keys: "k", Command: "scrollline -10", Description: "Scroll up"},
			{Keys: "<C-y>", Command: "scrollline -10", Description: "Scroll up"},
			{Keys: "h", Command: "scrollpx -50", Description: "Scroll left"},
			{Keys: "l", Command: "scrollpx 50", Description: "Scroll right"},
			{Keys: "G", Command: "scrollto 100", Description: "Scroll to bottom"},
			{Keys: "gg", Command: "scrollto 0", Description: "Scroll to top"},
			{Keys: "$", Command: "scrollto 100 x", Description: "Scroll to right edge"},
			{Keys: "^", Command: "scrollto 0 x", Description: "Scroll to left edge"},
			{Keys: "<C-u>", Command: "scrollpage -0.5", Description: "Scroll half page up"},
			{Keys: "<C-d>", Command: "scrollpage 0.5", Description: "Scroll half page down"},
			{Keys: "<C-f>", Command: "scrollpage 1", Description: "Scroll page down"},
			{Keys: "<C-b>", Command: "scrollpage -1", Description: "Scroll page up"},

			// History and navigation
			{Keys: "H", Command: "back", Description: "Go back"},
			{Keys: "L", Command: "forward", Description: "Go forward"},
			{Keys: "r", Command: "reload", Description: "Reload"},
			{Keys: "R", Command: "reloadhard", Description: "Reload, bypassing cache"},
			{Keys: "x", Command: "stop", Description: "Stop loading"},
			{Keys: "gh", Command: "home", Description: "Open home page"},
			{Keys: "gH", Command: "home true", Description: "Open home page in new tab"},
			{Keys: "gu", Command: "urlparent", Description: "Go to parent URL"},
			{Keys: "gU", Command: "urlroot", Description: "Go to root URL"},
			{Keys: "]]", Command: "followpage next", Description: "Follow next page link"},
			{Keys: "[[", Command: "followpage prev", Description: "Follow previous page link"},
			{Keys: "<C-a>", Command: "urlincrement 1", Description: "Increment URL"},
			{Keys: "<C-x>", Command: "urlincrement -1", Description: "Decrement URL"},

			// Tabs
			{Keys: "d", Command: "tabclose", Description: "Close tab"},
			{Keys: "D", Command: "composite tabprev; tabclose #", Description: "Close tab, focus previous"},
			{Keys: "u", Command: "undo", Description: "Restore closed tab"},
			{Keys: "J", Command: "tabprev", Description: "Previous tab"},
			{Keys: "K", Command: "tabnext", Description: "Next tab"},
			{Keys: "gt", Command: "tabnext_gt", Description: "Next tab or tab N"},
			{Keys: "gT", Command: "tabprev", Description: "Previous tab"},
			{Keys: "g0", Command: "tabfirst", Description: "First tab"},
			{Keys: "g^", Command: "tabfirst", Description: "First tab"},
			{Keys: "g$", Command: "tablast", Description: "Last tab"},
			{Keys: "<<", Command: "tabmove -1", Description: "Move tab left"},
			{Keys: ">>", Command: "tabmove +1", Description: "Move tab right"},
			{Keys: "<A-p>", Command: "pin", Description: "Pin tab"},
			{Keys: "<A-m>", Command: "mute toggle", Description: "Toggle mute"},

			// Opening
			{Keys: "o", Command: "fillcmdline open", Description: "Open URL"},
			{Keys: "O", Command: "current_url open", Description: "Edit current URL"},
			{Keys: "t", Command: "fillcmdline tabopen", Description: "Open URL in new tab"},
			{Keys: "T", Command: "current_url tabopen", Description: "Edit current URL in new tab"},
			{Keys: "p", Command: "clipboard open", Description: "Open clipboard URL"},
			{Keys: "P", Command: "clipboard tabopen", Description: "Open clipboard URL in new tab"},
			{Keys: "yy", Command: "clipboard yank", Description: "Copy URL"},
			{Keys: "yt", Command: "clipboard yanktitle", Description: "Copy title"},
			{Keys: "s", Command: "fillcmdline open search", Description: "Search"},
			{Keys: "S", Command: "fillcmdline tabopen search", Description: "Search in new tab"},
			{Keys: ":", Command: "fillcmdline_notrail", Description: "Open command line"},

			// Hints and focus
			{Keys: "f", Command: "hint", Description: "Follow link"},
			{Keys: "F", Command: "hint -b", Description: "Follow link in background"},
			{Keys: "gi", Command: "focusinput -l", Description: "Focus last input"},

			// Modes
			{Keys: "<C-v>", Command: "nmode ignore 1 mode normal", Description: "Pass next key to page"},
			{Keys: "<S-Insert>", Command: "mode ignore", Description: "Ignore mode"},
			{Keys: "v", Command: "mode visual", Description: "Visual mode"},
			{Keys: "m", Command: "gobble 1 markadd", Description: "Add mark"},
			{Keys: "`", Command: "gobble 1 markjump", Description: "Jump to mark"},
			{Keys: ".", Command: "repeat", Description: "Repeat last command"},
			{Keys: "<F1>", Command: "help", Description: "Help"},
		},
	}
}

// DefaultInsertKeymap returns default insert mode bindings.
func DefaultInsertKeymap() *Keymap {
	return &Keymap{
		Name:   "imaps",
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Escape>", Command: "composite unfocus | mode normal", Description: "Leave insert mode"},
			{Keys: "<C-[>", Command: "composite unfocus | mode normal", Description: "Leave insert mode"},
			{Keys: "<C-i>", Command: "editor", Description: "Edit in external editor"},
			{Keys: "<AC-Escape>", Command: "mode normal", Description: "Normal mode"},
			{Keys: "<S-Escape>", Command: "mode ignore", Description: "Ignore mode"},
		},
	}
}

// DefaultInputKeymap returns default input mode bindings. Input mode
// inherits insert mode bindings.
func DefaultInputKeymap() *Keymap {
	return &Keymap{
		Name:     "inputmaps",
		Inherits: "imaps",
		Source:   "default",
		Bindings: []Binding{
			{Keys: "<Tab>", Command: "focusinput -n", Description: "Next input"},
			{Keys: "<S-Tab>", Command: "focusinput -N", Description: "Previous input"},
		},
	}
}

// DefaultIgnoreKeymap returns default ignore mode bindings.
func DefaultIgnoreKeymap() *Keymap {
	return &Keymap{
		Name:   "ignoremaps",
		Source: "default",
		Bindings: []Binding{
			{Keys: "<S-Insert>", Command: "mode normal", Description: "Normal mode"},
			{Keys: "<AC-Escape>", Command: "mode normal", Description: "Normal mode"},
			{Keys: "<S-Escape>", Command: "mode normal", Description: "Normal mode"},
			{Keys: "<C-o>", Command: "nmode normal 1 mode ignore", Description: "Run one normal mode command"},
		},
	}
}

// DefaultVisualKeymap returns default visual mode bindings. Visual mode
// inherits normal mode bindings.
func DefaultVisualKeymap() *Keymap {
	return &Keymap{
		Name:     "vmaps",
		Inherits: "nmaps",
		Source:   "default",
		Bindings: []Binding{
			{Keys: "<Escape>", Command: "composite selection clear; mode normal", Description: "Leave visual mode"},
			{Keys: "y", Command: "composite selection text | clipboard yank", Description: "Copy selection"},
			{Keys: "l", Command: "selection extend forward character", Description: "Extend right"},
			{Keys: "h", Command: "selection extend backward character", Description: "Extend left"},
			{Keys: "j", Command: "selection extend forward line", Description: "Extend down"},
			{Keys: "k", Command: "selection extend backward line", Description: "Extend up"},
			{Keys: "e", Command: "selection extend forward word", Description: "Extend to word end"},
			{Keys: "v", Command: "", Description: "Masks the normal mode binding"},
		},
	}
}

// DefaultHintKeymap returns default hint mode bindings.
func DefaultHintKeymap() *Keymap {
	return &Keymap{
		Name:   "hintmaps",
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Backspace>", Command: "hint.popKey", Description: "Remove last hint character"},
			{Keys: "<Escape>", Command: "hint.reset", Description: "Cancel hinting"},
			{Keys: "<C-[>", Command: "hint.reset", Description: "Cancel hinting"},
			{Keys: "<Tab>", Command: "hint.focusNextHint", Description: "Next hint"},
			{Keys: "<S-Tab>", Command: "hint.focusPreviousHint", Description: "Previous hint"},
			{Keys: "<Enter>", Command: "hint.selectFocusedHint", Description: "Select hint"},
			{Keys: "<Space>", Command: "hint.selectFocusedHint", Description: "Select hint"},
		},
	}
}

// DefaultExKeymap returns default command line bindings.
func DefaultExKeymap() *Keymap {
	return &Keymap{
		Name:   "exmaps",
		Source: "default",
		Bindings: []Binding{
			{Keys: "<Enter>", Command: "ex.accept_line", Description: "Run command"},
			{Keys: "<C-j>", Command: "ex.accept_line", Description: "Run command"},
			{Keys: "<Escape>", Command: "ex.hide_and_clear", Description: "Close command line"},
			{Keys: "<ArrowUp>", Command: "ex.prev_history", Description: "Previous history entry"},
			{Keys: "<ArrowDown>", Command: "ex.next_history", Description: "Next history entry"},
			{Keys: "<Tab>", Command: "ex.next_completion", Description: "Next completion"},
			{Keys: "<S-Tab>", Command: "ex.prev_completion", Description: "Previous completion"},
		},
	}
}

// DefaultBrowserKeymap returns bindings available in every mode.
func DefaultBrowserKeymap() *Keymap {
	return &Keymap{
		Name:   "browsermaps",
		Source: "default",
		Bindings: []Binding{
			{Keys: "<C-,>", Command: "escapehatch", Description: "Return focus to the page"},
			{Keys: "<C-6>", Command: "tab #", Description: "Alternate tab"},
		},
	}
}
