package headless

// prelude stands in for the browser and the IFrame player API. The fake
// player records every API call and reports state changes through the
// configured events the way the real player does.
const prelude = `
var window = this;
var __loadListeners = [];
window.addEventListener = function (type, listener) {
    if (type === 'load') {
        __loadListeners.push(listener);
    }
};

var __elements = {};
var document = {
    getElementById: function (id) {
        if (!__elements[id]) {
            __elements[id] = { id: id, style: {} };
        }
        return __elements[id];
    }
};

var __player = null;

var YT = {
    Player: function (id, config) {
        this.id = id;
        this.config = config;
        this.events = config.events || {};
        this.calls = [];
        this.state = -1;
        this.currentTime = 0;
        this.loadedFraction = 0;
        this.duration = 0;
        this.volume = 100;
        this.muted = false;
        this.rate = 1;
        this.videoData = { title: '', author: '', video_id: config.videoId };
        __player = this;

        var self = this;
        setTimeout(function () {
            self.__emit('onReady', undefined);
        }, 0);
    }
};

YT.Player.prototype.__emit = function (name, data) {
    var handler = this.events[name];
    if (handler) {
        handler({ target: this, data: data });
    }
};

YT.Player.prototype.__setState = function (state) {
    this.state = state;
    this.__emit('onStateChange', state);
};

YT.Player.prototype.__record = function (name, args) {
    this.calls.push(name + '(' + JSON.stringify(Array.prototype.slice.call(args)) + ')');
};

YT.Player.prototype.playVideo = function () { this.__record('playVideo', arguments); this.__setState(1); };
YT.Player.prototype.pauseVideo = function () { this.__record('pauseVideo', arguments); this.__setState(2); };
YT.Player.prototype.stopVideo = function () { this.__record('stopVideo', arguments); this.__setState(5); };
YT.Player.prototype.loadVideoById = function (settings) {
    this.__record('loadVideoById', arguments);
    this.videoData = { title: '', author: '', video_id: settings.videoId };
    this.currentTime = settings.startSeconds || 0;
    this.__setState(3);
    this.__setState(1);
};
YT.Player.prototype.cueVideoById = function (settings) {
    this.__record('cueVideoById', arguments);
    this.videoData = { title: '', author: '', video_id: settings.videoId };
    this.__setState(5);
};
YT.Player.prototype.loadPlaylist = function () { this.__record('loadPlaylist', arguments); this.__setState(1); };
YT.Player.prototype.cuePlaylist = function () { this.__record('cuePlaylist', arguments); this.__setState(5); };
YT.Player.prototype.mute = function () { this.__record('mute', arguments); this.muted = true; };
YT.Player.prototype.unMute = function () { this.__record('unMute', arguments); this.muted = false; };
YT.Player.prototype.setVolume = function (volume) { this.__record('setVolume', arguments); this.volume = volume; };
YT.Player.prototype.seekTo = function (position) { this.__record('seekTo', arguments); this.currentTime = position; };
YT.Player.prototype.setSize = function () { this.__record('setSize', arguments); };
YT.Player.prototype.setPlaybackRate = function (rate) {
    this.__record('setPlaybackRate', arguments);
    this.rate = rate;
    this.__emit('onPlaybackRateChange', rate);
};
YT.Player.prototype.getCurrentTime = function () { return this.currentTime; };
YT.Player.prototype.getVideoLoadedFraction = function () { return this.loadedFraction; };
YT.Player.prototype.getDuration = function () { return this.duration; };
YT.Player.prototype.getVideoData = function () { return this.videoData; };
`
