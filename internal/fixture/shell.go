package fixture

// appShellHTML is the mock app shell. It re-renders the whole root on state
// changes the way the real SPA does, so positional locators behave the same:
// when an overlay (recorder, settings) is open it replaces the shell, making
// its close button the first icon button and its stop button the last button.
//
// Query parameters provoke diagnostics for capture tests:
//
//	?boom=console  emits a console.error
//	?boom=warn     emits a console.warn
//	?boom=throw    throws an uncaught error
//	?boom=fetch    fetches a closed local port (request failure)
const appShellHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>OmniScribe V2</title>
<style>
  body { font-family: system-ui, sans-serif; margin: 0; }
  header { display: flex; justify-content: space-between; padding: 12px 16px; }
  nav { position: fixed; bottom: 0; width: 100%; display: flex; }
  nav button { flex: 1; padding: 10px 0; }
  main { padding: 16px; }
  .overlay { padding: 16px; }
  svg { width: 16px; height: 16px; }
</style>
</head>
<body>
<div id="root"></div>
<script>
(function () {
  'use strict';

  var icon = '<svg viewBox="0 0 16 16" aria-hidden="true"><circle cx="8" cy="8" r="6"/></svg>';

  var state = { view: 'home', overlay: null };

  var views = {
    home: '<h2>Recordings</h2><p>No recordings yet</p><p>Tap the mic to start recording</p>',
    folders: '<h2>Folders</h2><ul>' +
      '<li>Personal</li><li>Work</li><li>Ideas</li></ul>',
    search: '<h2>Search</h2><input type="search" placeholder="Search recordings">',
    actions: '<h2>Actions</h2><p>No actions extracted</p>'
  };

  function shell() {
    return '<header><h1>OmniScribe</h1>' +
      '<button data-action="open-settings" aria-label="Settings">' + icon + '</button>' +
      '</header>' +
      '<main>' + views[state.view] + '</main>' +
      '<nav>' +
      '<button data-action="view" data-view="home">' + icon + 'Home</button>' +
      '<button data-action="view" data-view="folders">' + icon + 'Folders</button>' +
      '<button data-action="open-recorder">' + icon + 'Record</button>' +
      '<button data-action="view" data-view="search">' + icon + 'Search</button>' +
      '<button data-action="view" data-view="actions">' + icon + 'Actions</button>' +
      '</nav>';
  }

  function recorder() {
    return '<div class="overlay">' +
      '<button data-action="close-overlay" aria-label="Close">' + icon + '</button>' +
      '<p><strong>REC</strong> <span id="timer">0:03</span></p>' +
      '<p>Parser: Raw</p>' +
      '<button data-action="pause" aria-label="Pause">' + icon + '</button>' +
      '<button data-action="close-overlay" aria-label="Stop">Stop</button>' +
      '</div>';
  }

  function settings() {
    return '<div class="overlay">' +
      '<button data-action="close-overlay" aria-label="Back">' + icon + '</button>' +
      '<h2>Settings</h2>' +
      '<p>Supabase Sync: Not connected</p>' +
      '<p>Transcription: on-device</p>' +
      '</div>';
  }

  function render() {
    var root = document.getElementById('root');
    if (state.overlay === 'recorder') {
      root.innerHTML = recorder();
    } else if (state.overlay === 'settings') {
      root.innerHTML = settings();
    } else {
      root.innerHTML = shell();
    }
  }

  document.addEventListener('click', function (ev) {
    var btn = ev.target.closest('button');
    if (!btn) return;
    var action = btn.getAttribute('data-action');
    if (action === 'view') {
      state.view = btn.getAttribute('data-view');
    } else if (action === 'open-recorder') {
      state.overlay = 'recorder';
    } else if (action === 'open-settings') {
      state.overlay = 'settings';
    } else if (action === 'close-overlay') {
      state.overlay = null;
    } else {
      return;
    }
    render();
  });

  render();
  console.log('omniscribe shell ready');

  var booms = new URLSearchParams(window.location.search).getAll('boom');
  booms.forEach(function (boom) {
    if (boom === 'console') {
      console.error('deliberate console error');
    } else if (boom === 'warn') {
      console.warn('deliberate console warning');
    } else if (boom === 'throw') {
      setTimeout(function () { throw new Error('deliberate uncaught error'); }, 0);
    } else if (boom === 'fetch') {
      fetch('http://127.0.0.1:9/unreachable').catch(function () {});
    }
  });
})();
</script>
</body>
</html>
`
